package entity

// Language identifies a natural language by the short abbreviation used
// in corpus file names (e.g. "en", "vi").
type Language struct {
	Abbrev string
}

func Lang(abbrev string) Language {
	return Language{Abbrev: abbrev}
}

func (l Language) String() string {
	return l.Abbrev
}

// Pair is a source/target language pair. Support checks treat a pair
// and its reverse as equivalent; the order still matters for file
// naming and for remote path layout.
type Pair struct {
	Src Language
	Tgt Language
}

func NewPair(src, tgt string) Pair {
	return Pair{Src: Lang(src), Tgt: Lang(tgt)}
}

func (p Pair) Reverse() Pair {
	return Pair{Src: p.Tgt, Tgt: p.Src}
}

func (p Pair) String() string {
	return p.Src.Abbrev + "-" + p.Tgt.Abbrev
}
