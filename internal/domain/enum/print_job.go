package enum

// PrintJobStatus tracks delivery of a rendered payload to a printer.
type PrintJobStatus string

const (
	PrintJobPending PrintJobStatus = "pending"
	PrintJobPrinted PrintJobStatus = "printed"
	PrintJobFailed  PrintJobStatus = "failed"
	// PrintJobSkipped means no printer is configured for the target.
	PrintJobSkipped PrintJobStatus = "skipped"
)

func (s PrintJobStatus) IsValid() bool {
	switch s {
	case PrintJobPending, PrintJobPrinted, PrintJobFailed, PrintJobSkipped:
		return true
	}
	return false
}

// PrintKind is the layout a print job carries.
type PrintKind string

const (
	PrintKindKOT     PrintKind = "kot"
	PrintKindToken   PrintKind = "token"
	PrintKindReceipt PrintKind = "receipt"
	PrintKindTest    PrintKind = "test"
)
