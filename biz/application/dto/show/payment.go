package show

import "time"

type CheckPaymentStatusReq struct {
	AnswerId string `query:"answerId"`
}

type PaymentStatusResp struct {
	IsPaid bool   `json:"isPaid"`
	Error  string `json:"error,omitempty"`
}

type Payment struct {
	Id            string    `json:"id"`
	StudentId     string    `json:"studentId"`
	AnswerId      string    `json:"answerId"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	Method        string    `json:"method"`
	TransactionId *string   `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreatePaymentReq struct {
	AnswerId  string `json:"answerId"`
	StudentId string `json:"studentId,omitempty"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

type UpdatePaymentStatusReq struct {
	PaymentId     string  `json:"paymentId"`
	Status        string  `json:"status"`
	TransactionId *string `json:"transactionId,omitempty"`
}

type CreateCheckoutSessionReq struct {
	AnswerId string `json:"answerId"`
	Amount   int64  `json:"amount"`
}

type CreateCheckoutSessionResp struct {
	SessionId string `json:"sessionId"`
	Url       string `json:"url"`
	PaymentId string `json:"paymentId"`
}

type WebhookResp struct {
	Received bool `json:"received"`
}
