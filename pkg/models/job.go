package models

// DefaultJobTime is the placeholder used when the extracted table has no time for a job.
const DefaultJobTime = "TBD"

// JobRecord is one field-service appointment extracted from a screenshot table.
// Identity is positional: the index within the ordered job sequence. The same
// index aligns the job with its generated customer notification, so the
// sequence is never re-sorted.
type JobRecord struct {
	Time           string `json:"time"`
	Address        string `json:"address"`
	ProductCode    string `json:"productCode"`
	ProductType    string `json:"productType"`
	ProductBrand   string `json:"productBrand"`
	Fault          string `json:"fault"`
	ErrorCode      string `json:"errorCode"`
	ProductionYear string `json:"productionYear"`
	SerialNumber   string `json:"serialNumber"`

	// Extra holds cells past the ninth column, in order.
	Extra []string `json:"extra,omitempty"`
}

// TimeSlot is the scheduled visit window for a job, as 24-hour "HH:MM" strings.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReviewDraft is the editable result of an extraction, before it is saved as a worksheet.
type ReviewDraft struct {
	DateLabel     string      `json:"dateLabel"`
	Jobs          []JobRecord `json:"jobs"`
	TimeSlots     []TimeSlot  `json:"timeSlots"`
	Notifications []string    `json:"notifications"`
}
