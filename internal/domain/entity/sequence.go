package entity

// Sequence names.
const (
	SequenceOrder = "order"
	SequenceBill  = "bill"
)

// SequenceStart is the value a counter holds before its first number, so
// the first order is ORD-0001 and the first bill is 1001.
func SequenceStart(name string) int64 {
	if name == SequenceBill {
		return 1000
	}
	return 0
}

// Sequence is an atomically incremented counter row. Value holds the last
// number handed out.
type Sequence struct {
	Name  string `gorm:"size:50;primaryKey"`
	Value int64  `gorm:"not null"`
}

// TableName returns the table name for the Sequence model
func (Sequence) TableName() string {
	return "sequences"
}
