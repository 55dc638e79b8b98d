package errno

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrInvalidParam = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrUnauthorized = &Errno{Code: 401, Message: "Unauthorized"}
	ErrForbidden    = &Errno{Code: 403, Message: "Forbidden"}
	ErrNotFound     = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// 上传相关错误码
	ErrMissingParam     = &Errno{Code: 20001, Message: "Missing required parameter"}
	ErrFileNameIllegal  = &Errno{Code: 20002, Message: "File name is illegal"}
	ErrFileSizeIllegal  = &Errno{Code: 20003, Message: "File size is illegal"}
	ErrInvalidVideoFile = &Errno{Code: 20004, Message: "Invalid video file"}
	ErrUploadError      = &Errno{Code: 20005, Message: "Upload error"}

	// 视频处理错误码
	ErrVideoNotFound         = &Errno{Code: 20101, Message: "Video not found"}
	ErrVideoForbidden        = &Errno{Code: 20102, Message: "Unauthorized"}
	ErrInvalidOptions        = &Errno{Code: 20103, Message: "Invalid processing options"}
	ErrNoOperationRequested  = &Errno{Code: 20104, Message: "No processing operation requested"}
	ErrVideoBusy             = &Errno{Code: 20105, Message: "Video is already being processed"}
	ErrInvalidStatus         = &Errno{Code: 20106, Message: "Invalid video status transition"}
	ErrProcessingFailed      = &Errno{Code: 20107, Message: "Video processing failed"}
	ErrSubtitlesNotAvailable = &Errno{Code: 20108, Message: "Subtitles not available"}
	ErrUnsupportedStyle      = &Errno{Code: 20109, Message: "Unsupported subtitle style"}
	ErrUnsupportedFormat     = &Errno{Code: 20110, Message: "Unsupported subtitle format"}

	// 用户认证错误码
	ErrEmailRequired      = &Errno{Code: 20201, Message: "Email is required"}
	ErrPasswordTooShort   = &Errno{Code: 20202, Message: "Password must be at least 8 characters"}
	ErrEmailExists        = &Errno{Code: 20203, Message: "Email already registered"}
	ErrInvalidCredentials = &Errno{Code: 20204, Message: "Invalid email or password"}
	ErrTokenInvalid       = &Errno{Code: 20205, Message: "Invalid or expired token"}
	ErrUserNotFound       = &Errno{Code: 20206, Message: "User not found"}
	ErrOAuthState         = &Errno{Code: 20207, Message: "Invalid OAuth state"}
	ErrOAuthProvider      = &Errno{Code: 20208, Message: "OAuth provider not configured"}
	ErrOAuthExchange      = &Errno{Code: 20209, Message: "OAuth exchange failed"}
	ErrUserSuspended      = &Errno{Code: 20210, Message: "User account is suspended"}

	// 工单错误码
	ErrTicketNotFound      = &Errno{Code: 20301, Message: "Ticket not found"}
	ErrTicketFieldRequired = &Errno{Code: 20302, Message: "Subject and description are required"}
	ErrInvalidPriority     = &Errno{Code: 20303, Message: "Invalid ticket priority"}
	ErrInvalidTicketType   = &Errno{Code: 20304, Message: "Invalid ticket type"}
	ErrInvalidTicketStatus = &Errno{Code: 20305, Message: "Invalid ticket status"}
	ErrEmptyResponse       = &Errno{Code: 20306, Message: "Response message is required"}
)

// HTTPStatus maps an error code onto the HTTP status the REST layer answers with.
func (e *Errno) HTTPStatus() int {
	switch {
	case e == nil || e.Code == OK.Code:
		return 200
	case e.Code >= 400 && e.Code < 500:
		return e.Code
	case e.Code >= 500 && e.Code < 600:
		return 500
	}
	switch e {
	case ErrVideoNotFound, ErrUserNotFound, ErrTicketNotFound, ErrSubtitlesNotAvailable:
		return 404
	case ErrVideoForbidden:
		return 403
	case ErrVideoBusy, ErrEmailExists, ErrInvalidStatus:
		return 409
	case ErrFileSizeIllegal:
		return 413
	case ErrInvalidCredentials, ErrTokenInvalid, ErrUserSuspended:
		return 401
	case ErrProcessingFailed, ErrUploadError, ErrOAuthExchange:
		return 500
	}
	return 400
}
