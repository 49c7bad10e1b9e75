package rag

// DefaultDocuments seeds the document index on first start with general
// institute reference text. Deployments replace these with the full
// knowledge base export.
func DefaultDocuments() []Document {
	return []Document{
		{
			ID:       "about-institute",
			Category: "general",
			Text: "The LNM Institute of Information Technology (LNMIIT) is a private " +
				"deemed university in Jaipur, Rajasthan, offering undergraduate and " +
				"postgraduate programmes in Computer Science, Communication and Computer " +
				"Engineering, Electronics, Mechanical Engineering, Mathematics and Physics.",
		},
		{
			ID:       "campus-location",
			Category: "general",
			Text: "The LNMIIT campus is located on Rupa ki Nangal, Post-Sumel, Via-Jamdoli, " +
				"Jaipur, about 20 km from Jaipur railway station. The campus is fully " +
				"residential with separate hostel blocks for students.",
		},
		{
			ID:       "hostel-blocks",
			Category: "hostel",
			Text: "Student hostels at LNMIIT are organized into boys hostel blocks BH1 " +
				"through BH5 and a girls hostel. Each block has a warden, and hostel " +
				"issues are reported through the complaint system with the block name, " +
				"room number and a description of the issue.",
		},
		{
			ID:       "library-services",
			Category: "library",
			Text: "The LNMIIT central library provides an online public access catalog " +
				"for searching books by title or author, and holds textbooks, reference " +
				"books and journals across engineering and the sciences.",
		},
		{
			ID:       "faculty-meetings",
			Category: "faculty",
			Text: "Students can book meeting slots with faculty members through the " +
				"assistant by naming the faculty member and a date. Available slots are " +
				"listed and a chosen slot is confirmed with its time range.",
		},
	}
}
