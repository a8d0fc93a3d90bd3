package audit

import "sort"

// AuditResult groups the findings of one audit run
type AuditResult struct {
	Findings   []Finding                 `json:"findings"`
	ByKind     map[FindingKind][]Finding `json:"by_kind"`
	BySeverity SeverityGroups            `json:"by_severity"`
	Summary    Summary                   `json:"summary"`
}

// SeverityGroups splits findings by severity
type SeverityGroups struct {
	Critical []Finding `json:"critical"`
	High     []Finding `json:"high"`
	Medium   []Finding `json:"medium"`
}

// Summary holds finding counts. Total always equals Critical+High+Medium.
type Summary struct {
	Total    int                 `json:"total"`
	Critical int                 `json:"critical"`
	High     int                 `json:"high"`
	Medium   int                 `json:"medium"`
	ByKind   map[FindingKind]int `json:"by_kind"`
}

// Auditor runs a fixed set of rules over snapshots
type Auditor struct {
	thresholds Thresholds
	rules      []Rule
}

// AuditorOption is a functional option for configuring Auditor
type AuditorOption func(*Auditor)

// WithThresholds overrides the paid-fraction breakpoints
func WithThresholds(t Thresholds) AuditorOption {
	return func(a *Auditor) {
		a.thresholds = t
	}
}

// NewAuditor creates an auditor. It fails if the thresholds are inconsistent.
func NewAuditor(opts ...AuditorOption) (*Auditor, error) {
	a := &Auditor{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.thresholds.Validate(); err != nil {
		return nil, err
	}
	a.rules = DefaultRules(a.thresholds)
	return a, nil
}

// Thresholds returns the breakpoints in use
func (a *Auditor) Thresholds() Thresholds {
	return a.thresholds
}

// Run evaluates every rule and groups the findings. The output depends
// only on the snapshot contents, so the same snapshot always yields the
// same result.
func (a *Auditor) Run(snapshot *Snapshot) (*AuditResult, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	idx := newSnapshotIndex(snapshot)
	findings := make([]Finding, 0)
	for _, rule := range a.rules {
		findings = append(findings, rule.evaluate(idx)...)
	}
	sortFindings(findings)

	return groupFindings(findings), nil
}

// RunAudit runs the default rules with default thresholds
func RunAudit(snapshot *Snapshot) (*AuditResult, error) {
	a, err := NewAuditor()
	if err != nil {
		return nil, err
	}
	return a.Run(snapshot)
}

func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.Kind != b.Kind {
			return a.Kind.order() < b.Kind.order()
		}
		if a.Payload.Code != b.Payload.Code {
			return a.Payload.Code < b.Payload.Code
		}
		return a.ReferenceID.String() < b.ReferenceID.String()
	})
}

func groupFindings(findings []Finding) *AuditResult {
	result := &AuditResult{
		Findings: findings,
		ByKind:   make(map[FindingKind][]Finding, len(AllFindingKinds)),
		BySeverity: SeverityGroups{
			Critical: make([]Finding, 0),
			High:     make([]Finding, 0),
			Medium:   make([]Finding, 0),
		},
		Summary: Summary{ByKind: make(map[FindingKind]int, len(AllFindingKinds))},
	}
	for _, kind := range AllFindingKinds {
		result.ByKind[kind] = make([]Finding, 0)
		result.Summary.ByKind[kind] = 0
	}

	for _, f := range findings {
		result.ByKind[f.Kind] = append(result.ByKind[f.Kind], f)
		result.Summary.ByKind[f.Kind]++
		switch f.Severity {
		case SeverityCritical:
			result.BySeverity.Critical = append(result.BySeverity.Critical, f)
		case SeverityHigh:
			result.BySeverity.High = append(result.BySeverity.High, f)
		default:
			result.BySeverity.Medium = append(result.BySeverity.Medium, f)
		}
	}

	result.Summary.Critical = len(result.BySeverity.Critical)
	result.Summary.High = len(result.BySeverity.High)
	result.Summary.Medium = len(result.BySeverity.Medium)
	result.Summary.Total = result.Summary.Critical + result.Summary.High + result.Summary.Medium
	return result
}
