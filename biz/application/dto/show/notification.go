package show

import "time"

type NotificationData struct {
	SubmissionId string `json:"submissionId,omitempty"`
	ProblemId    string `json:"problemId,omitempty"`
	CorrectionId string `json:"correctionId,omitempty"`
}

type CreateNotificationReq struct {
	UserId  string            `json:"userId"`
	Type    string            `json:"type"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Data    *NotificationData `json:"data,omitempty"`
}

type Notification struct {
	Id        string            `json:"id"`
	UserId    string            `json:"userId"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      *NotificationData `json:"data,omitempty"`
	IsRead    bool              `json:"isRead"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ListNotificationsReq 查询参数保留原始字符串，由 service 解析
type ListNotificationsReq struct {
	IsRead string `query:"isRead"`
	Limit  string `query:"limit"`
}

type ListNotificationsResp struct {
	Notifications []*Notification `json:"notifications"`
	Total         int64           `json:"total"`
}

type MarkReadReq struct {
	NotificationId string `json:"notificationId"`
}
