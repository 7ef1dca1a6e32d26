package gin

import (
	"log/slog"

	"github.com/FabienMht/ginslog/logger"
	"github.com/FabienMht/ginslog/recovery"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine
type Context = gin.Context
type RouterGroup = gin.RouterGroup

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger logs each request using the default slog logger, so request
// logs share the format of the rest of the application logs.
func Logger() HandlerFunc {
	return logger.New(slog.Default())
}

// Recovery recovers from panics and logs them with slog.
func Recovery() HandlerFunc {
	return recovery.New(slog.Default())
}
