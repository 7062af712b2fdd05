package dtos

// TrpcResponse mirrors the envelope the original tRPC frontend expects:
// {"result":{"data":{...}}}.
type TrpcResponse[T any] struct {
	Result TrpcData[T] `json:"result"`
}

type TrpcData[T any] struct {
	Data T `json:"data"`
}

func NewTrpcResponse[T any](data T) TrpcResponse[T] {
	return TrpcResponse[T]{Result: TrpcData[T]{Data: data}}
}

type RegisterRequest struct {
	LegalName     string `json:"legalName" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,email,max=255"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,max=32"`
	IDNumber      string `json:"idNumber" validate:"required,max=64"`
	IDType        string `json:"idType" validate:"required,oneof=ID_CARD PASSPORT"`
	WaitingRoomID string `json:"waitingRoomId" validate:"required,uuid"`
}

type RegisterResponseData struct {
	ID            string `json:"id"`
	LegalName     string `json:"legalName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	IDNumber      string `json:"idNumber"`
	IDType        string `json:"idType"`
	WaitingRoomID string `json:"waitingRoomId"`
}
