package dto

type SubmitAgreementRequest struct {
	OwnerEmail  string  `json:"ownerEmail"`
	OwnerName   string  `json:"ownerName"`
	Apartment   string  `json:"apartment"`
	FloorNo     string  `json:"floorNo"`
	BlockName   string  `json:"blockName"`
	ApartmentNo string  `json:"apartmentNo"`
	Rent        float64 `json:"rent"`
	// AgreementAcceptDate defaults to the submission time when empty.
	AgreementAcceptDate string `json:"agreementAcceptDate"`
}

// SubmissionResult is returned with HTTP 200 whether or not the agreement
// was accepted; clients inspect Accepted.
type SubmissionResult struct {
	Accepted  bool        `json:"accepted"`
	Reason    string      `json:"reason,omitempty"`
	Agreement interface{} `json:"agreement,omitempty"`
}

type AgreementLookupResponse struct {
	Agreement interface{} `json:"agreement"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
