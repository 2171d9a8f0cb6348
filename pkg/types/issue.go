// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Severity grades an issue.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// IssueType is the closed set of problems bibcheck reports.
type IssueType string

// Online issue types.
const (
	IssueDOINotFound            IssueType = "DOI_NOT_FOUND"
	IssueNotFoundOnArxiv        IssueType = "NOT_FOUND_ON_ARXIV"
	IssueCitationCFFMissing     IssueType = "CITATION_CFF_MISSING"
	IssueNotFoundOnline         IssueType = "NOT_FOUND_ONLINE"
	IssueCandidateFoundNoDOI    IssueType = "CANDIDATE_FOUND_NO_DOI"
	IssueAmbiguousMatch         IssueType = "AMBIGUOUS_MATCH"
	IssueLowConfidenceCandidate IssueType = "LOW_CONFIDENCE_CANDIDATE"
	IssueTitleMismatch          IssueType = "TITLE_MISMATCH"
	IssueYearMismatch           IssueType = "YEAR_MISMATCH"
	IssueAuthorMismatch         IssueType = "AUTHOR_MISMATCH"
	IssueVenueMismatch          IssueType = "VENUE_MISMATCH"
)

// Static issue types.
const (
	IssueParseError            IssueType = "PARSE_ERROR"
	IssueDuplicateCitekey      IssueType = "DUPLICATE_CITEKEY"
	IssueMissingRequiredFields IssueType = "MISSING_REQUIRED_FIELDS"
	IssueBadYear               IssueType = "BAD_YEAR"
	IssueBadDOIFormat          IssueType = "BAD_DOI_FORMAT"
	IssueBadURLFormat          IssueType = "BAD_URL_FORMAT"
	IssueSuspiciousMetadata    IssueType = "SUSPICIOUS_METADATA"
)

// Issue is a single finding about an entry. Issues are values and are not
// modified once created.
type Issue struct {
	Type     IssueType      `json:"type" yaml:"type"`
	Severity Severity       `json:"severity" yaml:"severity"`
	Message  string         `json:"message" yaml:"message"`
	Details  map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewError returns an ERROR issue.
func NewError(t IssueType, msg string, details map[string]any) Issue {
	return Issue{Type: t, Severity: SeverityError, Message: msg, Details: details}
}

// NewWarning returns a WARNING issue.
func NewWarning(t IssueType, msg string, details map[string]any) Issue {
	return Issue{Type: t, Severity: SeverityWarning, Message: msg, Details: details}
}
