package checkout

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

var ErrBadCode = errors.New("invalid redemption code")

// RedemptionCode is the verified claim a code carries: which checkout session
// it settles and how much gold it is worth.
type RedemptionCode struct {
	SessionID  string
	GoldAmount int
}

// CodeIssuer mints and parses the signed codes shown to the user after a
// completed purchase. Crediting off a code stays once-only because the ledger
// keys the grant on the embedded session id.
type CodeIssuer struct {
	secret []byte
	appID  string
}

func NewCodeIssuer(secret, appID string) *CodeIssuer {
	return &CodeIssuer{secret: []byte(secret), appID: appID}
}

func (c *CodeIssuer) Mint(sessionID string, goldAmount int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sess": sessionID,
		"gold": goldAmount,
		"app":  c.appID,
	})
	code, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("could not mint redemption code: %w", err)
	}
	return code, nil
}

func (c *CodeIssuer) Parse(code string) (RedemptionCode, error) {
	token, err := jwt.Parse(code, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return RedemptionCode{}, ErrBadCode
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return RedemptionCode{}, ErrBadCode
	}
	sess, _ := claims["sess"].(string)
	gold, _ := claims["gold"].(float64)
	app, _ := claims["app"].(string)
	if sess == "" || gold <= 0 || app != c.appID {
		return RedemptionCode{}, ErrBadCode
	}
	return RedemptionCode{SessionID: sess, GoldAmount: int(gold)}, nil
}
