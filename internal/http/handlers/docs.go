package handlers

import (
	"net/http"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/http/docs"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const openAPIPath = "/openapi.json"

type DocsHandler struct {
	doc []byte
	ui  http.Handler
}

// NewDocsHandler renders the OpenAPI document once. Empty title or version
// keep the template defaults.
func NewDocsHandler(title, version string) *DocsHandler {
	spec := *docs.SwaggerInfo
	if title != "" {
		spec.Title = title
	}
	if version != "" {
		spec.Version = version
	}

	return &DocsHandler{
		doc: []byte(spec.ReadDoc()),
		ui: httpSwagger.Handler(
			httpSwagger.URL(openAPIPath),
			httpSwagger.DeepLinking(true),
		),
	}
}

// OpenAPI serves the API document.
func (h *DocsHandler) OpenAPI(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", h.doc)
}

// UI serves the Swagger UI under /docs/*any.
func (h *DocsHandler) UI(ctx *gin.Context) {
	switch ctx.Param("any") {
	case "", "/":
		ctx.Redirect(http.StatusMovedPermanently, "/docs/index.html")
		return
	}

	h.ui.ServeHTTP(ctx.Writer, ctx.Request)
}

// Root sends browsers to the docs.
func (h *DocsHandler) Root(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/docs")
}
