// Package web 供应商回执以及 WhatsApp 运营相关的 HTTP 接口
package web

import (
	"errors"
	"fmt"
	"net/http"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/pkg/httpx"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"gitee.com/flycash/communication-platform/internal/service/callback"
	"gitee.com/flycash/communication-platform/internal/service/derivation"
	"gitee.com/flycash/communication-platform/internal/service/provider"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

type Handler struct {
	processor  Processor
	reconciler Reconciler
	vendors    *provider.Registry
	picker     derivation.VendorPicker
	client     httpx.Doer
	templates  cache.TemplateCache
	languages  cache.LanguageCache
	logger     *elog.Component
}

func NewHandler(
	processor Processor,
	reconciler Reconciler,
	vendors *provider.Registry,
	picker derivation.VendorPicker,
	client httpx.Doer,
	templates cache.TemplateCache,
	languages cache.LanguageCache,
) *Handler {
	return &Handler{
		processor:  processor,
		reconciler: reconciler,
		vendors:    vendors,
		picker:     picker,
		client:     client,
		templates:  templates,
		languages:  languages,
		logger:     elog.DefaultLogger,
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.POST("/callbacks/:vendor", h.Callback)
	server.GET("/callbacks/:vendor", h.Callback)
	g := server.Group("/whatsapp")
	g.POST("/send", h.SendWhatsapp)
	g.POST("/opt-in", h.OptIn)
	g.POST("/templates", h.CreateTemplate)
}

// Callback 供应商A用 query/form 参数回调，供应商B推送 JSON
func (h *Handler) Callback(ctx *gin.Context) {
	typ, ok := domain.ParseVendorType(ctx.Param("vendor"))
	if !ok {
		ctx.JSON(http.StatusNotFound, Result{Message: "未知的供应商"})
		return
	}
	var err error
	switch typ {
	case domain.VendorA:
		if err = ctx.Request.ParseForm(); err != nil {
			ctx.JSON(http.StatusBadRequest, Result{Message: err.Error()})
			return
		}
		var report domain.DeliveryReport
		report, err = callback.ParseVendorA(ctx.Request.Form)
		if err == nil {
			err = h.reconciler.Reconcile(ctx.Request.Context(), report)
		}
	case domain.VendorB:
		var body []byte
		body, err = ctx.GetRawData()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, Result{Message: err.Error()})
			return
		}
		var reports []domain.DeliveryReport
		reports, err = callback.ParseVendorB(body)
		if err == nil {
			err = h.reconciler.ReconcileAll(ctx.Request.Context(), reports)
		}
	default:
		ctx.JSON(http.StatusNotFound, Result{Message: "供应商没有回执接口"})
		return
	}
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, Result{Success: true, Message: "OK"})
	case errors.Is(err, errs.ErrInvalidParameter):
		h.logger.Warn("回执格式错误", elog.FieldErr(err), elog.String("vendor", typ.String()))
		ctx.JSON(http.StatusBadRequest, Result{Message: err.Error()})
	default:
		h.logger.Error("处理回执失败", elog.FieldErr(err), elog.String("vendor", typ.String()))
		ctx.JSON(http.StatusInternalServerError, Result{Message: "系统错误"})
	}
}

// SendWhatsapp 同步发送 WhatsApp。对外约定无论成败都返回 200，结果放在 success 字段里
func (h *Handler) SendWhatsapp(ctx *gin.Context) {
	var evt domain.CommunicationEvent
	if err := ctx.ShouldBindJSON(&evt); err != nil {
		ctx.JSON(http.StatusOK, Result{Message: fmt.Sprintf("请求格式错误: %s", err.Error())})
		return
	}
	evt.Channels = []domain.Channel{domain.ChannelWhatsapp}
	res := h.processor.Process(ctx.Request.Context(), evt)
	if !res.Success {
		msg := "发送失败"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		ctx.JSON(http.StatusOK, Result{Message: msg})
		return
	}
	ctx.JSON(http.StatusOK, Result{Success: true, Message: "OK"})
}

func (h *Handler) OptIn(ctx *gin.Context) {
	var req OptInReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, Result{Message: err.Error()})
		return
	}
	if req.MobileNumber == "" || (req.OptType != domain.OptIn && req.OptType != domain.OptOut) {
		ctx.JSON(http.StatusBadRequest, Result{Message: "mobileNumber 和 optType 必填"})
		return
	}
	v, ok := h.vendor(ctx, req.Vendor)
	if !ok {
		return
	}
	vreq, err := v.BuildWhatsAppOptInRequest(req.MobileNumber, req.OptType)
	if err != nil {
		h.logger.Error("构造订阅请求失败", elog.FieldErr(err))
		ctx.JSON(http.StatusInternalServerError, Result{Message: "系统错误"})
		return
	}
	h.do(ctx, v.Type(), vreq)
}

// CreateTemplate 把本地模板同步到供应商，非文本模板附带示例文件
func (h *Handler) CreateTemplate(ctx *gin.Context) {
	var req CreateTemplateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, Result{Message: err.Error()})
		return
	}
	if req.Name == "" || req.LanguageCode == "" {
		ctx.JSON(http.StatusBadRequest, Result{Message: "name 和 languageCode 必填"})
		return
	}
	v, ok := h.vendor(ctx, req.Vendor)
	if !ok {
		return
	}
	lang, found, err := h.languages.GetByCode(ctx.Request.Context(), domain.NormalizeLanguageCode(req.LanguageCode))
	if err != nil {
		h.logger.Error("查询语言失败", elog.FieldErr(err))
		ctx.JSON(http.StatusInternalServerError, Result{Message: "系统错误"})
		return
	}
	if !found {
		ctx.JSON(http.StatusNotFound, Result{Message: errs.ErrLanguageNotFound.Error()})
		return
	}
	val, found, err := h.templates.Get(ctx.Request.Context(), domain.TemplateKey{Name: req.Name, LanguageID: lang.ID})
	if err != nil {
		h.logger.Error("查询模板失败", elog.FieldErr(err))
		ctx.JSON(http.StatusInternalServerError, Result{Message: "系统错误"})
		return
	}
	if !found {
		ctx.JSON(http.StatusNotFound, Result{Message: errs.ErrTemplateNotFound.Error()})
		return
	}
	tpl := val.Template
	tpl.LanguageCode = lang.Code
	vreq, err := v.BuildWhatsAppTemplateCreationRequest(tpl, provider.SampleFileName(tpl.MetaData[domain.MetaKeyMediaType]))
	if err != nil {
		h.logger.Error("构造模板创建请求失败", elog.FieldErr(err), elog.String("template", tpl.Name))
		ctx.JSON(http.StatusInternalServerError, Result{Message: "系统错误"})
		return
	}
	h.do(ctx, v.Type(), vreq)
}

// vendor 没有指定供应商时按 WhatsApp 的权重选一个
func (h *Handler) vendor(ctx *gin.Context, name string) (provider.Vendor, bool) {
	var typ domain.VendorType
	if name == "" {
		var err error
		typ, err = h.picker.PickVendor(domain.ChannelWhatsapp)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, Result{Message: err.Error()})
			return nil, false
		}
	} else {
		var ok bool
		typ, ok = domain.ParseVendorType(name)
		if !ok {
			ctx.JSON(http.StatusBadRequest, Result{Message: fmt.Sprintf("未知的供应商 %s", name)})
			return nil, false
		}
	}
	v, err := h.vendors.Get(typ)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, Result{Message: err.Error()})
		return nil, false
	}
	return v, true
}

func (h *Handler) do(ctx *gin.Context, typ domain.VendorType, req domain.VendorRequest) {
	resp, err := h.client.Do(ctx.Request.Context(), req)
	data := VendorResp{Vendor: typ.String(), StatusCode: resp.StatusCode, Body: string(resp.Body)}
	if err != nil {
		h.logger.Error("供应商请求失败", elog.FieldErr(err), elog.String("vendor", typ.String()), elog.String("url", req.URL))
		ctx.JSON(http.StatusBadGateway, Result{Message: err.Error(), Data: data})
		return
	}
	ctx.JSON(http.StatusOK, Result{Success: true, Message: "OK", Data: data})
}
