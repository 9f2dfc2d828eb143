package jwt

import (
	"errors"
	"esxi-stats/api/e"
	"esxi-stats/app/utils"
	"esxi-stats/config"
	"esxi-stats/vsphere"
	"fmt"
	"github.com/golang-jwt/jwt/v4"
	"time"
)

var (
	jwtSecret   []byte
	errNoSecret = errors.New("jwt secret is not set")
)

const (
	Type     = "jwt"
	lifetime = 3 * time.Hour
)

// Claims carry the endpoint and user, never the password.
type Claims struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	jwt.StandardClaims
}

type Token struct {
}

func Setup() {
	jwtSecret = []byte(config.G.App.Token.Secret)
}

func (t Token) Generate(a vsphere.Auth) (string, error) {
	nowTime := time.Now()
	expireTime := nowTime.Add(lifetime)

	claims := Claims{
		utils.AesEncrypt(a.Host),
		utils.AesEncrypt(a.Username),
		jwt.StandardClaims{
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  nowTime.Unix(),
			Issuer:    "esxi-stats",
		},
	}
	if len(jwtSecret) == 0 {
		return "", errNoSecret
	}
	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString(jwtSecret)
}

func (t Token) Parse(token string) (*vsphere.Auth, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if len(jwtSecret) == 0 {
			return nil, errNoSecret
		}
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf(e.TokenExpired)
		}
		return nil, fmt.Errorf(e.TokenInvalid)
	}

	if claims, ok := tokenClaims.Claims.(*Claims); ok && tokenClaims.Valid {
		auth := vsphere.Auth{
			Host:     utils.AesDecrypt(claims.Host),
			Username: utils.AesDecrypt(claims.Username),
		}
		return &auth, nil
	}
	return nil, fmt.Errorf(e.TokenInvalid)
}

func (t Token) Type() string {
	return Type
}
