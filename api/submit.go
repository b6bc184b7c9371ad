package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/namnv2496/go-code-room/internal/gateway"
	"github.com/namnv2496/go-code-room/internal/model"
)

func submitHandler(engine gateway.Engine) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.SubmitRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}

		if len(req.Language) == 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "language is required"})
			return
		}
		if len(req.Content) == 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}
		if len(req.Content) > 8192 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "content exceeds 8192 character limit"})
			return
		}
		if len(req.Input) > 8192 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "input exceeds 8192 character limit"})
			return
		}

		res := engine.Execute(ctx.Request.Context(), req.Language, req.Content)
		ctx.JSON(http.StatusOK, model.SubmitResponse{Output: res.Legacy()})
	}
}
