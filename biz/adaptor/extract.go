package adaptor

import (
	"context"
	"errors"
	"essay-review/biz/application/dto/basic"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/util"
	"essay-review/biz/infrastructure/util/log"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/golang-jwt/jwt/v4"
	"github.com/mitchellh/mapstructure"
)

type contextKey string

const (
	hertzContext contextKey = "hertz_context"
	userMetaKey  contextKey = "user_meta"
)

func InjectContext(ctx context.Context, c *app.RequestContext) context.Context {
	return context.WithValue(ctx, hertzContext, c)
}

func ExtractContext(ctx context.Context) (*app.RequestContext, error) {
	c, ok := ctx.Value(hertzContext).(*app.RequestContext)
	if !ok {
		return nil, errors.New("hertz context not found")
	}
	return c, nil
}

// WithUserMeta 把已认证的用户写入 context
func WithUserMeta(ctx context.Context, user *basic.UserMeta) context.Context {
	return context.WithValue(ctx, userMetaKey, user)
}

// ExtractUserMeta 优先取中间件写入的用户，否则从请求头的 token 解析；失败返回空用户
func ExtractUserMeta(ctx context.Context) (user *basic.UserMeta) {
	if u, ok := ctx.Value(userMetaKey).(*basic.UserMeta); ok && u != nil {
		return u
	}
	user = new(basic.UserMeta)
	c, err := ExtractContext(ctx)
	if err != nil {
		return
	}
	parsed, err := ParseToken(string(c.GetHeader(consts.Authorization)))
	if err != nil {
		log.CtxInfo(ctx, "extract user meta fail, err=%v", err)
		return
	}
	return parsed
}

// ParseToken 校验 ES256 签名并解析用户信息
func ParseToken(tokenString string) (*basic.UserMeta, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwt.ParseECPublicKeyFromPEM([]byte(config.GetConfig().Auth.PublicKey))
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	user := new(basic.UserMeta)
	if err = mapstructure.Decode(map[string]any(claims), user); err != nil {
		return nil, err
	}
	if user.UserId == "" {
		return nil, errors.New("token has no userId")
	}
	log.Info("userMeta=%s", util.JSONF(user))
	return user, nil
}

// GenerateJwtToken 生成jwt
/*
生成 ECDSA 私钥: openssl ecparam -genkey -name prime256v1 -noout -out private_key.pem
从私钥中提取公钥: openssl ec -in private_key.pem -pubout -out public_key.pem
*/
func GenerateJwtToken(user *basic.UserMeta) (string, int64, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(config.GetConfig().Auth.SecretKey))
	if err != nil {
		return "", 0, err
	}
	iat := time.Now().Unix()
	exp := iat + config.GetConfig().Auth.AccessExpire
	claims := jwt.MapClaims{
		"exp":    exp,
		"iat":    iat,
		"userId": user.UserId,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", 0, err
	}
	return tokenString, exp, nil
}
