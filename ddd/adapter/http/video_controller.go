package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"snipx-service/ddd/application/app"
	"snipx-service/ddd/application/cqe"
	"snipx-service/pkg/errno"
	"snipx-service/pkg/middleware"
	"snipx-service/pkg/restapi"
)

// uploadField is the multipart field the web client posts the file under.
const uploadField = "video"

// VideoController 视频上传、处理、查询控制器
type VideoController struct {
	videoApp app.VideoApp
}

func NewVideoController(videoApp app.VideoApp) *VideoController {
	return &VideoController{videoApp: videoApp}
}

// Upload 上传视频
func (c *VideoController) Upload(ctx *gin.Context) {
	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			restapi.Failed(ctx, errno.ErrMissingParam)
			return
		}
		restapi.Failed(ctx, errno.NewBizError(errno.ErrUploadError, err))
		return
	}
	file, err := fh.Open()
	if err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrUploadError, err))
		return
	}
	defer file.Close()

	resp, err := c.videoApp.Upload(ctx.Request.Context(), &cqe.UploadVideoCqe{
		UserID:   middleware.CurrentUserID(ctx),
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  file,
	})
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// Process 按选项同步处理视频
func (c *VideoController) Process(ctx *gin.Context) {
	var req cqe.ProcessVideoCqe
	// 空 body 等同于没有任何操作，由流水线拒绝
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidOptions, err))
		return
	}
	req.UserID = middleware.CurrentUserID(ctx)
	req.VideoID = ctx.Param("video_id")

	// 客户端断开不中断处理，超时由 processing.run_timeout 控制
	resp, err := c.videoApp.Process(context.WithoutCancel(ctx.Request.Context()), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *VideoController) GetVideo(ctx *gin.Context) {
	resp, err := c.videoApp.GetVideo(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("video_id"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *VideoController) ListVideos(ctx *gin.Context) {
	resp, err := c.videoApp.ListVideos(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *VideoController) DeleteVideo(ctx *gin.Context) {
	videoID := ctx.Param("video_id")
	if err := c.videoApp.DeleteVideo(ctx.Request.Context(), middleware.CurrentUserID(ctx), videoID); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{"message": "Video deleted successfully", "video_id": videoID})
}

func (c *VideoController) GetSubtitles(ctx *gin.Context) {
	resp, err := c.videoApp.GetSubtitles(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("video_id"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// DownloadSubtitles 以附件形式返回字幕文件
func (c *VideoController) DownloadSubtitles(ctx *gin.Context) {
	format, err := cqe.ParseSubtitleFormat(ctx.Query("format"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	file, err := c.videoApp.DownloadSubtitles(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("video_id"), format)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	ctx.Data(http.StatusOK, file.ContentType, file.Content)
}
