package entity

// CorpusEntry is one parallel file pair. Tag is a human-readable label
// ("train", "tst2013"), not a role; the role is the GroupedFiles field
// the entry sits in. SourceFile and TargetFile must stay aligned line
// for line.
type CorpusEntry struct {
	Tag        string
	SourceFile string
	TargetFile string
}

// VocabularyPair holds one vocabulary file per language side. Either
// both sides are present or the pair is absent and the manifest builder
// derives them.
type VocabularyPair struct {
	Source string
	Target string
}

// GroupedFiles is the assembled manifest: every corpus file the
// pipeline materialized, grouped by role. It is returned as an
// in-memory value; nothing here is serialized to disk.
type GroupedFiles struct {
	TrainCorpora []CorpusEntry
	DevCorpora   []CorpusEntry
	TestCorpora  []CorpusEntry
	Vocabularies *VocabularyPair
}
