package model

import "fmt"

// Summary counts what a cleanup run did.
type Summary struct {
	DryRun     bool
	Candidates uint
	Archived   uint
	Failed     uint
}

func (s Summary) String() string {
	return fmt.Sprintf("candidates: %d, archived: %d, failed: %d", s.Candidates, s.Archived, s.Failed)
}

// FormatPrint format summary as a chat message needed
func (s Summary) FormatPrint(owner string) string {
	mode := "apply"
	if s.DryRun {
		mode = "dry run"
	}
	return fmt.Sprintf(`
## Stale repositories in %s (%s)

| Candidates | Archived | Failed |
| ---- | ---- | ---- |
| %d | %d | %d |
`, owner, mode, s.Candidates, s.Archived, s.Failed)
}

// CountCandidate add Candidates counter
func (s *Summary) CountCandidate() {
	s.Candidates++
}

// CountArchived add Archived counter
func (s *Summary) CountArchived() {
	s.Archived++
}

// CountFailed add Failed counter
func (s *Summary) CountFailed() {
	s.Failed++
}

// IsBlank check whether there was nothing to archive
func (s *Summary) IsBlank() bool {
	return s.Candidates == 0
}

// HasFailures check whether any archive call failed
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}
