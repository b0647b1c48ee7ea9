// Package types provides the wire types shared by the analysis, submission and HTTP layers.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MaxAdvisoryReasons is how many failure reasons an advisory carries.
const MaxAdvisoryReasons = 3

// DocumentCheck is the judgement the analysis model returns for a document.
type DocumentCheck struct {
	DetectedType   string   `json:"detected_type"`
	ExpectedTypeOK bool     `json:"expected_type_ok"`
	QualityOK      bool     `json:"quality_ok"`
	FailReasons    []string `json:"fail_reasons"`
}

// IDCheck is the judgement the analysis model returns for an identity document.
type IDCheck struct {
	IsID     bool   `json:"is_id"`
	IsBlurry bool   `json:"is_blurry"`
	Reason   string `json:"reason"`
}

// Advisory is the user-facing summary of a check.
type Advisory struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons"`
}

// DocumentAnalysis is the response body of the document analysis endpoint.
type DocumentAnalysis struct {
	DetectedType   string   `json:"detectedType"`
	ExpectedTypeOK bool     `json:"expectedTypeOk"`
	QualityOK      bool     `json:"qualityOk"`
	FailReasons    []string `json:"failReasons"`
	Advisory       Advisory `json:"advisory"`
}

// IDAnalysis is the response body of the identity document endpoint.
type IDAnalysis struct {
	IsID     bool     `json:"isId"`
	IsBlurry bool     `json:"isBlurry"`
	Reason   string   `json:"reason"`
	Advisory Advisory `json:"advisory"`
}

// Advisory summarises the check the way the intake form presents it.
// A wrong document type takes precedence over quality problems.
func (c DocumentCheck) Advisory() Advisory {
	ok := c.ExpectedTypeOK && c.QualityOK
	a := Advisory{OK: ok, Reasons: []string{}}
	switch {
	case !c.ExpectedTypeOK:
		a.Message = "Wrong document for this section"
	case ok:
		a.Message = "Document looks correct"
	default:
		a.Message = "Please re-upload: quality issues"
	}
	if !ok {
		a.Reasons = truncateReasons(c.FailReasons)
	}
	return a
}

// Response converts the model judgement to the API shape.
func (c DocumentCheck) Response() DocumentAnalysis {
	reasons := c.FailReasons
	if reasons == nil {
		reasons = []string{}
	}
	return DocumentAnalysis{
		DetectedType:   c.DetectedType,
		ExpectedTypeOK: c.ExpectedTypeOK,
		QualityOK:      c.QualityOK,
		FailReasons:    reasons,
		Advisory:       c.Advisory(),
	}
}

// Advisory summarises the identity check the way the intake form presents it.
func (c IDCheck) Advisory() Advisory {
	a := Advisory{OK: c.IsID && !c.IsBlurry, Reasons: []string{}}
	switch {
	case a.OK:
		a.Message = "ID correct"
	case !c.IsID:
		a.Message = "No ID document detected"
	default:
		a.Message = "ID blurry or low quality"
	}
	if !a.OK && c.Reason != "" {
		a.Reasons = []string{c.Reason}
	}
	return a
}

// Response converts the model judgement to the API shape.
func (c IDCheck) Response() IDAnalysis {
	return IDAnalysis{
		IsID:     c.IsID,
		IsBlurry: c.IsBlurry,
		Reason:   c.Reason,
		Advisory: c.Advisory(),
	}
}

func truncateReasons(reasons []string) []string {
	n := min(len(reasons), MaxAdvisoryReasons)
	return append([]string{}, reasons[:n]...)
}
