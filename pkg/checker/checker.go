// Package checker defines the structured output contract of the external
// checkers the pipeline consumes. The checkers themselves (test runners,
// bundle analyzers, dependency scanners, IDE probes) live outside this
// module; only their result shapes are specified here.
package checker

import (
	"encoding/json"
	"os"
)

// Section names the measurement categories a checker bundle may carry.
type Section string

const (
	SectionTests            Section = "tests"
	SectionAPI              Section = "api"
	SectionE2E              Section = "e2e"
	SectionBuild            Section = "build"
	SectionBundle           Section = "bundle"
	SectionMemory           Section = "memory"
	SectionDevExperience    Section = "devExperience"
	SectionDependencies     Section = "dependencies"
	SectionCodeOrganization Section = "codeOrganization"
	SectionTypeSafety       Section = "typeSafety"
)

// TestReport summarizes a test-runner invocation.
type TestReport struct {
	Total           int      `json:"total"`
	Passed          int      `json:"passed"`
	Failed          int      `json:"failed"`
	Skipped         int      `json:"skipped"`
	CoveragePct     float64  `json:"coveragePct"`
	DurationSeconds float64  `json:"durationSeconds"`
	FailedSuites    []string `json:"failedSuites,omitempty"`
}

// CheckReport summarizes an API or E2E check run.
type CheckReport struct {
	Total           int      `json:"total"`
	Passed          int      `json:"passed"`
	Failed          int      `json:"failed"`
	DurationSeconds float64  `json:"durationSeconds"`
	Failures        []string `json:"failures,omitempty"`
}

// BuildReport summarizes a build invocation.
type BuildReport struct {
	Succeeded             bool     `json:"succeeded"`
	DurationSeconds       float64  `json:"durationSeconds"`
	CacheHitRatePct       float64  `json:"cacheHitRatePct"`
	ParallelEfficiencyPct float64  `json:"parallelEfficiencyPct"`
	TasksTotal            int      `json:"tasksTotal"`
	TasksFailed           int      `json:"tasksFailed"`
	FailedTasks           []string `json:"failedTasks,omitempty"`
}

// PackageSize names a package and its contribution to a bundle.
type PackageSize struct {
	Name   string  `json:"name"`
	SizeKB float64 `json:"sizeKB"`
}

// BundleReport summarizes bundle analysis.
type BundleReport struct {
	TotalSizeKB     float64       `json:"totalSizeKB"`
	InitialChunkKB  float64       `json:"initialChunkKB"`
	LargestPackages []PackageSize `json:"largestPackages,omitempty"`
}

// MemoryReport summarizes memory profiling.
type MemoryReport struct {
	PeakMB         float64  `json:"peakMB"`
	AverageMB      float64  `json:"averageMB"`
	SuspectedLeaks []string `json:"suspectedLeaks,omitempty"`
}

// DevExperienceReport summarizes IDE/compiler responsiveness probes.
type DevExperienceReport struct {
	CompileTimeSeconds    float64 `json:"compileTimeSeconds"`
	AutocompleteLatencyMS float64 `json:"autocompleteLatencyMs"`
	IndexingTimeSeconds   float64 `json:"indexingTimeSeconds"`
}

// DependencyReport summarizes architecture/dependency scanning.
type DependencyReport struct {
	HealthScore          float64  `json:"healthScore"`
	CircularDependencies []string `json:"circularDependencies,omitempty"`
	BoundaryViolations   []string `json:"boundaryViolations,omitempty"`
	OutdatedCount        int      `json:"outdatedCount"`
}

// CodeOrganizationReport summarizes file/package placement scanning.
type CodeOrganizationReport struct {
	Score             float64  `json:"score"`
	MisplacedFiles    []string `json:"misplacedFiles,omitempty"`
	OversizedPackages []string `json:"oversizedPackages,omitempty"`
}

// TypeSafetyReport summarizes type-safety scanning.
type TypeSafetyReport struct {
	StrictModeEnabled bool `json:"strictModeEnabled"`
	AnyUsageCount     int  `json:"anyUsageCount"`
	TypeErrorCount    int  `json:"typeErrorCount"`
	UntypedExports    int  `json:"untypedExports"`
}

// Bundle is the raw measurement bundle handed to the orchestrator. Every
// section is optional; missing sections are substituted with neutral
// defaults exactly once at ingestion.
type Bundle struct {
	Tests            *TestReport             `json:"tests,omitempty"`
	API              *CheckReport            `json:"api,omitempty"`
	E2E              *CheckReport            `json:"e2e,omitempty"`
	Build            *BuildReport            `json:"build,omitempty"`
	Bundle           *BundleReport           `json:"bundle,omitempty"`
	Memory           *MemoryReport           `json:"memory,omitempty"`
	DevExperience    *DevExperienceReport    `json:"devExperience,omitempty"`
	Dependencies     *DependencyReport       `json:"dependencies,omitempty"`
	CodeOrganization *CodeOrganizationReport `json:"codeOrganization,omitempty"`
	TypeSafety       *TypeSafetyReport       `json:"typeSafety,omitempty"`
}

// LoadBundle reads a measurement bundle from a JSON file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Normalized is a fully-populated view of a bundle. Downstream code never
// checks for absent sections again; it consults Has when a distinction
// between "measured zero" and "not measured" matters.
type Normalized struct {
	Tests            TestReport
	API              CheckReport
	E2E              CheckReport
	Build            BuildReport
	Bundle           BundleReport
	Memory           MemoryReport
	DevExperience    DevExperienceReport
	Dependencies     DependencyReport
	CodeOrganization CodeOrganizationReport
	TypeSafety       TypeSafetyReport

	present map[Section]bool
}

// Normalize resolves all optional sections into defaults.
func (b *Bundle) Normalize() *Normalized {
	n := &Normalized{present: make(map[Section]bool)}

	assign := func(s Section, ok bool, fill func()) {
		n.present[s] = ok
		if ok {
			fill()
		}
	}

	assign(SectionTests, b.Tests != nil, func() { n.Tests = *b.Tests })
	assign(SectionAPI, b.API != nil, func() { n.API = *b.API })
	assign(SectionE2E, b.E2E != nil, func() { n.E2E = *b.E2E })
	assign(SectionBuild, b.Build != nil, func() { n.Build = *b.Build })
	assign(SectionBundle, b.Bundle != nil, func() { n.Bundle = *b.Bundle })
	assign(SectionMemory, b.Memory != nil, func() { n.Memory = *b.Memory })
	assign(SectionDevExperience, b.DevExperience != nil, func() { n.DevExperience = *b.DevExperience })
	assign(SectionDependencies, b.Dependencies != nil, func() { n.Dependencies = *b.Dependencies })
	assign(SectionCodeOrganization, b.CodeOrganization != nil, func() { n.CodeOrganization = *b.CodeOrganization })
	assign(SectionTypeSafety, b.TypeSafety != nil, func() { n.TypeSafety = *b.TypeSafety })

	return n
}

// Has reports whether the section was actually measured.
func (n *Normalized) Has(s Section) bool {
	return n.present[s]
}

// MarkMissing records a section as unmeasured, reverting it to defaults.
// Used by the orchestrator when a component fails mid-run.
func (n *Normalized) MarkMissing(s Section) {
	n.present[s] = false
}

// Missing lists the sections that were not measured, in declaration order.
func (n *Normalized) Missing() []Section {
	order := []Section{
		SectionTests, SectionAPI, SectionE2E, SectionBuild, SectionBundle,
		SectionMemory, SectionDevExperience, SectionDependencies,
		SectionCodeOrganization, SectionTypeSafety,
	}
	var missing []Section
	for _, s := range order {
		if !n.present[s] {
			missing = append(missing, s)
		}
	}
	return missing
}
