package ingest

// sampleRows is the first-run demo data, shaped like an imported sheet.
func sampleRows() []RawRow {
	cols := []string{"Vocabulary", "Pronunciation", "Chinese Translation", "Meaning", "Sample Sentence", "Phrases"}
	data := [][]string{
		{
			"Pragmatic", "/praɡˈmadik/", "务实的，讲究实效的",
			"Dealing with things sensibly and realistically in a way that is based on practical rather than theoretical considerations.",
			"We need to take a pragmatic approach to solve this problem quickly.",
			"Take a pragmatic approach",
		},
		{
			"Ambiguous", "/amˈbiɡyo͞oəs/", "模棱两可的，含糊不清的",
			"Open to more than one interpretation; not having one obvious meaning.",
			"The instructions were so ambiguous that no one knew what to do.",
			"An ambiguous statement",
		},
		{
			"Eloquent", "/ˈeləkwənt/", "雄辩的，有说服力的",
			"Fluent or persuasive in speaking or writing.",
			"She made an eloquent appeal for support.",
			"An eloquent speaker",
		},
	}
	return zipRows(cols, data, 2)
}
