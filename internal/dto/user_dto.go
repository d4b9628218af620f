package dto

import "encoding/json"

// UpsertUserRequest is the sign-in ping sent by the client after login.
// A role field, if present, is ignored.
type UpsertUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Status      string `json:"status"`
}

// PatchUserRequest replaces the whole profile field set; omitted fields are cleared.
type PatchUserRequest struct {
	Role                string          `json:"role"`
	IDs                 json.RawMessage `json:"ids"`
	UserEmail           string          `json:"userEmail"`
	UserName            string          `json:"userName"`
	FloorNo             string          `json:"floorNo"`
	BlockName           string          `json:"blockName"`
	ApartmentNo         string          `json:"apartmentNo"`
	Rent                float64         `json:"rent"`
	AgreementAcceptDate string          `json:"agreementAcceptDate"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type SetRoleResponse struct {
	Success bool `json:"success"`
}

type UserUpdatedResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"user"`
}
