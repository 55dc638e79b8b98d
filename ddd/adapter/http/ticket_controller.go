package http

import (
	"github.com/gin-gonic/gin"

	"snipx-service/ddd/application/app"
	"snipx-service/ddd/application/cqe"
	"snipx-service/pkg/errno"
	"snipx-service/pkg/middleware"
	"snipx-service/pkg/restapi"
)

// TicketController 支持工单控制器，含管理端接口
type TicketController struct {
	ticketApp app.TicketApp
}

func NewTicketController(ticketApp app.TicketApp) *TicketController {
	return &TicketController{ticketApp: ticketApp}
}

func actorOf(ctx *gin.Context) app.Actor {
	return app.Actor{
		UserID:  middleware.CurrentUserID(ctx),
		Email:   ctx.GetString(middleware.ContextEmail),
		IsAdmin: middleware.IsAdmin(ctx),
	}
}

func (c *TicketController) CreateTicket(ctx *gin.Context) {
	var req cqe.CreateTicketCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	resp, err := c.ticketApp.CreateTicket(ctx.Request.Context(), actorOf(ctx), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *TicketController) ListMyTickets(ctx *gin.Context) {
	resp, err := c.ticketApp.ListMyTickets(ctx.Request.Context(), actorOf(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *TicketController) GetTicket(ctx *gin.Context) {
	resp, err := c.ticketApp.GetTicket(ctx.Request.Context(), actorOf(ctx), ctx.Param("ticket_id"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *TicketController) UpdateStatus(ctx *gin.Context) {
	var req cqe.UpdateTicketStatusCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	resp, err := c.ticketApp.UpdateStatus(ctx.Request.Context(), actorOf(ctx), ctx.Param("ticket_id"), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *TicketController) AddResponse(ctx *gin.Context) {
	var req cqe.AddTicketResponseCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	resp, err := c.ticketApp.AddResponse(ctx.Request.Context(), actorOf(ctx), ctx.Param("ticket_id"), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// AdminListTickets 管理员按状态、优先级过滤
func (c *TicketController) AdminListTickets(ctx *gin.Context) {
	var query cqe.TicketQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	resp, err := c.ticketApp.ListTickets(ctx.Request.Context(), &query)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *TicketController) AdminStats(ctx *gin.Context) {
	resp, err := c.ticketApp.Stats(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
