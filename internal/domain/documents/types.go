package documents

import "slices"

type TypeInfo struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

var typeTable = []TypeInfo{
	{Type: "cv", Label: "CV/Resume", Description: "Current curriculum vitae or resume", Required: true},
	{Type: "certificate", Label: "Certificates", Description: "Educational or professional certificates"},
	{Type: "ghana_card", Label: "Ghana Card", Description: "National identification card", Required: true},
	{Type: "dependent_details", Label: "Dependent Details", Description: "Information about dependents"},
	{Type: "medical_certificate", Label: "Medical Certificate", Description: "Medical documentation for leave"},
	{Type: "allowance_proof", Label: "Allowance Proof", Description: "Supporting documents for allowance claims"},
	{Type: "other", Label: "Other Documents", Description: "Miscellaneous documents"},
}

var allowedMIMETypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
	"image/jpg",
}

func Types() []TypeInfo {
	return slices.Clone(typeTable)
}

func LookupType(name string) (TypeInfo, bool) {
	for _, info := range typeTable {
		if info.Type == name {
			return info, true
		}
	}
	return TypeInfo{}, false
}

func RequiredTypes() []TypeInfo {
	var out []TypeInfo
	for _, info := range typeTable {
		if info.Required {
			out = append(out, info)
		}
	}
	return out
}

func AllowedMIME(mime string) bool {
	return slices.Contains(allowedMIMETypes, mime)
}
