package storage

// Faculty is a read-only faculty record. Rows are seeded from the college
// HR export and fuzzy-matched, never mutated by the bot.
type Faculty struct {
	ID     int64
	FName  string
	LName  string
	Field  string
	Degree string
	Gender string
}

// FullName returns the faculty member's display name.
func (f *Faculty) FullName() string {
	return f.FName + " " + f.LName
}

// Complaint is a hostel complaint filed through the bot.
type Complaint struct {
	ID      int64
	Issue   string
	Hostel  string
	RoomNo  string
	Date    string
	RollNo  string // Session-derived role of the filer
	Solved  bool
	Created int64 // Unix timestamp
}
