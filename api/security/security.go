package security

import (
	"context"
	"errors"
	"esxi-stats/api/e"
	"esxi-stats/api/security/bearer"
	"esxi-stats/api/security/jwt"
	"esxi-stats/app/logging"
	"esxi-stats/app/utils"
	"esxi-stats/config"
	"esxi-stats/helper"
	"esxi-stats/vsphere"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"net/http"
	"strings"
)

const (
	CurrentAuth = "CURRENT_AUTH"
)

type Token interface {
	Generate(a vsphere.Auth) (string, error)
	Parse(t string) (*vsphere.Auth, error)
	Type() string
}

var tokenTool Token = bearer.Token{}

// verify checks credentials against the endpoint, replaced in tests.
var verify = func(ctx context.Context, a vsphere.Auth) error {
	return a.Verify(ctx)
}

// ErrInsecureToken means tokens could be minted without knowing a configured secret.
var ErrInsecureToken = errors.New("insecure token configuration")

func Setup() {
	t := config.G.App.Token
	if err := checkToken(t.Type, t.Secret, t.Key); err != nil {
		logging.L().Fatal(err)
	}
	utils.SetKey(t.Key)
	tokenTool = getTokenTool(config.G.App.Token.Type)
	jwt.Setup()
	logging.L().Info("token type: ", tokenTool.Type())
}

// GetToken
// @Summary      Get a token
// @Description  Exchanges hypervisor credentials for an API token. The credentials are verified by logging in.
// @Tags         auth
// @Accept       application/json
// @Produce      application/json
// @Param        object  body      vsphere.Auth  true  "credentials"
// @Success      200     {string}  json          "{"code":"2000","message":"ok","data":{"token":""}}"
// @Failure      400     {string}  json          "{"code":"4001","message":"connect failed"}"
// @Failure      500     {string}  json          "{"code":"5000","message":"error"}"
// @Router       /token [post]
func GetToken(c *gin.Context) {
	r := e.Gin{C: c}
	auth := vsphere.Auth{}
	err := c.ShouldBindBodyWith(&auth, binding.JSON)
	if err != nil {
		r.ResponseError(http.StatusBadRequest, e.BadRequest, nil)
		return
	}

	errs := e.ValidReqParam(&auth)
	if len(errs) > 0 {
		r.ResponseErrors(http.StatusBadRequest, errs, nil)
		return
	}

	if auth.Host == "" {
		auth.Host = config.G.Esxi.Host
	}
	if auth.Port == 0 {
		auth.Port = config.G.Esxi.Port
	}
	if !strings.EqualFold(auth.Host, config.G.Esxi.Host) {
		r.ResponseMessage(http.StatusBadRequest, e.BadRequest, "only "+config.G.Esxi.Host+" is served", nil)
		return
	}

	if err := verify(c.Request.Context(), auth); err != nil {
		logging.L().Warn("token refused: ", err)
		msg := e.GetMessage(e.ConnectFailed)
		if errors.Is(err, helper.ErrUnsupportedVersion) {
			msg = err.Error()
		}
		r.ResponseMessage(http.StatusBadRequest, e.ConnectFailed, msg, nil)
		return
	}

	token, err := tokenTool.Generate(auth)
	if err != nil {
		r.ResponseError(http.StatusInternalServerError, e.SystemError, nil)
		return
	}

	r.ResponseOk(http.StatusOK, e.Success, map[string]string{
		"token": token,
	})
}

// Verify accepts the token from the "token" header or an "Authorization: Bearer" header.
func Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		var code, message string
		code = e.Success
		token := c.GetHeader("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			code = e.Unauthorized
			message = e.GetMessage(code)
		} else {
			auth, err := tokenTool.Parse(token)
			if err != nil {
				code = err.Error()
				message = e.GetMessage(code)
			} else {
				c.Set(CurrentAuth, *auth)
			}
		}

		if code != e.Success {
			c.JSON(http.StatusUnauthorized, e.Response{
				Code:    code,
				Message: message,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetCurrentAuth(c *gin.Context) vsphere.Auth {
	auth, _ := c.Get(CurrentAuth)
	a, _ := auth.(vsphere.Auth)
	return a
}

// checkToken requires the secret a token type is signed or sealed with.
func checkToken(typ, secret, key string) error {
	switch typ {
	case jwt.Type:
		if secret == "" {
			return fmt.Errorf("%w: app.token.secret is required for jwt tokens", ErrInsecureToken)
		}
	default:
		if key == "" {
			return fmt.Errorf("%w: app.token.key is required for %s tokens", ErrInsecureToken, bearer.Type)
		}
	}
	if key != "" {
		switch len(key) {
		case 16, 24, 32:
		default:
			return fmt.Errorf("%w: app.token.key must be 16, 24 or 32 bytes", ErrInsecureToken)
		}
	}
	return nil
}

func getTokenTool(t string) Token {
	switch t {
	case jwt.Type:
		return jwt.Token{}
	default:
		return bearer.Token{}
	}
}
