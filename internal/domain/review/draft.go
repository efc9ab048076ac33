package review

import "github.com/edusight/fieldcheck/internal/domain/model"

// EvidenceDraft accumulates evidence files for a finding that has not been
// committed yet. Committed findings are immutable; callers build a draft,
// then pass its files to RecordDiscrepancy.
type EvidenceDraft struct {
	files []model.EvidenceFile
}

// NewEvidenceDraft starts a draft, optionally seeded from an existing
// finding's evidence (the revise-a-committed-finding path).
func NewEvidenceDraft(files ...model.EvidenceFile) *EvidenceDraft {
	return &EvidenceDraft{files: append([]model.EvidenceFile(nil), files...)}
}

// Attach adds a file to the draft. A file with the same name replaces the
// earlier one in place; order is otherwise append order.
func (d *EvidenceDraft) Attach(f model.EvidenceFile) {
	for i := range d.files {
		if d.files[i].Filename == f.Filename {
			d.files[i] = f
			return
		}
	}
	d.files = append(d.files, f)
}

// Remove deletes the file with the given name, reporting whether it existed.
func (d *EvidenceDraft) Remove(filename string) bool {
	for i := range d.files {
		if d.files[i].Filename == filename {
			d.files = append(d.files[:i], d.files[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of files in the draft.
func (d *EvidenceDraft) Len() int { return len(d.files) }

// Files returns a copy of the draft's files in order.
func (d *EvidenceDraft) Files() []model.EvidenceFile {
	return append([]model.EvidenceFile(nil), d.files...)
}
