package adaptor

import (
	"context"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/util"
	"essay-review/biz/infrastructure/util/log"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const internalMessage = "internal server error"

var codeToHTTP = map[codes.Code]int{
	codes.Unauthenticated:  http.StatusUnauthorized,
	codes.PermissionDenied: http.StatusForbidden,
	codes.InvalidArgument:  http.StatusBadRequest,
	codes.NotFound:         http.StatusNotFound,
	codes.AlreadyExists:    http.StatusConflict,
	codes.Internal:         http.StatusInternalServerError,
}

// HTTPStatus 错误码到 http 状态码，未知错误按 500 处理
func HTTPStatus(err error) (int, string) {
	s, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, internalMessage
	}
	code, ok := codeToHTTP[s.Code()]
	if !ok {
		return http.StatusInternalServerError, internalMessage
	}
	return code, s.Message()
}

// PostProcess 统一输出 {success, message?, data} 或 {success:false, error}
func PostProcess(ctx context.Context, c *app.RequestContext, req, resp any, err error) {
	PostProcessWithMessage(ctx, c, req, resp, "", err)
}

func PostProcessWithMessage(ctx context.Context, c *app.RequestContext, req, resp any, message string, err error) {
	if !skipLog(string(c.Path())) {
		log.CtxInfo(ctx, "[%s] req=%s, resp=%s, err=%v", c.Path(), util.JSONF(req), util.JSONF(resp), err)
	}
	if err != nil {
		code, msg := HTTPStatus(err)
		if code == http.StatusInternalServerError {
			log.CtxError(ctx, "[%s] internal error: %v", c.Path(), err)
		}
		c.JSON(code, &show.Response{Success: false, Error: msg})
		return
	}
	c.JSON(http.StatusOK, &show.Response{Success: true, Message: message, Data: resp})
}

func skipLog(path string) bool {
	c := config.GetConfig()
	if c == nil {
		return false
	}
	return lo.Contains(c.Log.NoLogPaths, path)
}

// Abort 中间件中直接返回错误
func Abort(c *app.RequestContext, err error) {
	code, msg := HTTPStatus(err)
	c.AbortWithStatusJSON(code, &show.Response{Success: false, Error: msg})
}
