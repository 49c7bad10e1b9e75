package intent

// Intent labels recognized by the classifier. Labels handled locally by
// the retrieval-augmented path are lowercase by convention of the dialog
// engine's training data; the rest mirror the engine's intent names.
const (
	LabelGetLatestAnnouncement = "GetLatestAnnouncement"
	LabelAdmissionDetails      = "AdmissionDetails"
	LabelSearchLibraryBooks    = "SearchLibraryBooks"
	LabelSearchPapers          = "SearchPapers"
	LabelComplaint             = "Complaint"
	LabelViewAvailableSlots    = "ViewAvailableSlots"
	LabelConfirmSlotBooking    = "ConfirmSlotBooking"
	LabelFacultyData           = "faculty-data"
	LabelGeneralLNM            = "general-lnm"
)

// DefaultExamples seeds the intent index on first start. Each intent
// gets a handful of paraphrases; nearest-neighbor search over these is
// enough for routing, the dialog engine does the fine-grained NLU.
func DefaultExamples() []Example {
	return []Example{
		{Text: "what are the latest announcements", Label: LabelGetLatestAnnouncement},
		{Text: "any new events in college", Label: LabelGetLatestAnnouncement},
		{Text: "show me recent news from the institute", Label: LabelGetLatestAnnouncement},
		{Text: "what's happening on campus", Label: LabelGetLatestAnnouncement},

		{Text: "tell me about admissions", Label: LabelAdmissionDetails},
		{Text: "how do I apply to this college", Label: LabelAdmissionDetails},
		{Text: "admission info", Label: LabelAdmissionDetails},
		{Text: "what is the fee structure", Label: LabelAdmissionDetails},

		{Text: "can you get the book clean code", Label: LabelSearchLibraryBooks},
		{Text: "search for a book in the library", Label: LabelSearchLibraryBooks},
		{Text: "do you have introduction to algorithms", Label: LabelSearchLibraryBooks},
		{Text: "find me a book on operating systems", Label: LabelSearchLibraryBooks},

		{Text: "find research papers about machine learning", Label: LabelSearchPapers},
		{Text: "search papers on computer vision", Label: LabelSearchPapers},
		{Text: "I need publications about networks", Label: LabelSearchPapers},

		{Text: "I have an issue with my room", Label: LabelComplaint},
		{Text: "I want to raise a complaint", Label: LabelComplaint},
		{Text: "the water cooler in my hostel is broken", Label: LabelComplaint},
		{Text: "show me the complaints", Label: LabelComplaint},

		{Text: "I want to book a slot with a professor", Label: LabelViewAvailableSlots},
		{Text: "when is the professor free tomorrow", Label: LabelViewAvailableSlots},
		{Text: "show available meeting slots", Label: LabelViewAvailableSlots},

		{Text: "book the 10:00-10:30 slot", Label: LabelConfirmSlotBooking},
		{Text: "confirm my slot booking", Label: LabelConfirmSlotBooking},
		{Text: "yes book that time for me", Label: LabelConfirmSlotBooking},

		{Text: "who teaches machine learning here", Label: LabelFacultyData},
		{Text: "which faculty work in data science", Label: LabelFacultyData},
		{Text: "tell me about professor sharma", Label: LabelFacultyData},
		{Text: "list faculty with a PhD", Label: LabelFacultyData},

		{Text: "where is the campus located", Label: LabelGeneralLNM},
		{Text: "what clubs does the institute have", Label: LabelGeneralLNM},
		{Text: "tell me about hostel life", Label: LabelGeneralLNM},
		{Text: "what courses does the college offer", Label: LabelGeneralLNM},
	}
}
