package refparse

import "strings"

// bookEntry maps one name or abbreviation to a canonical book code.
// The table is ordered: the first matching entry wins, so a colliding
// abbreviation resolves to whichever book appears first. This is a known,
// documented limitation rather than something the extractor disambiguates.
type bookEntry struct {
	name string // lowercase, spaces removed
	code string // canonical three-letter code
}

var bookTable = []bookEntry{
	{"genesis", "GEN"}, {"gen", "GEN"},
	{"exodus", "EXO"}, {"exo", "EXO"}, {"ex", "EXO"},
	{"leviticus", "LEV"}, {"lev", "LEV"},
	{"numbers", "NUM"}, {"num", "NUM"},
	{"deuteronomy", "DEU"}, {"deut", "DEU"}, {"deu", "DEU"},
	{"joshua", "JOS"}, {"josh", "JOS"}, {"jos", "JOS"},
	{"judges", "JDG"}, {"judg", "JDG"}, {"jdg", "JDG"},
	{"ruth", "RUT"}, {"rut", "RUT"},
	{"1samuel", "1SA"}, {"1sam", "1SA"}, {"1sa", "1SA"},
	{"2samuel", "2SA"}, {"2sam", "2SA"}, {"2sa", "2SA"},
	{"1kings", "1KI"}, {"1kgs", "1KI"}, {"1ki", "1KI"},
	{"2kings", "2KI"}, {"2kgs", "2KI"}, {"2ki", "2KI"},
	{"1chronicles", "1CH"}, {"1chron", "1CH"}, {"1chr", "1CH"}, {"1ch", "1CH"},
	{"2chronicles", "2CH"}, {"2chron", "2CH"}, {"2chr", "2CH"}, {"2ch", "2CH"},
	{"ezra", "EZR"}, {"ezr", "EZR"},
	{"nehemiah", "NEH"}, {"neh", "NEH"},
	{"esther", "EST"}, {"est", "EST"},
	{"job", "JOB"},
	{"psalms", "PSA"}, {"psalm", "PSA"}, {"psa", "PSA"}, {"ps", "PSA"},
	{"proverbs", "PRO"}, {"prov", "PRO"}, {"pro", "PRO"},
	{"ecclesiastes", "ECC"}, {"eccl", "ECC"}, {"ecc", "ECC"},
	{"songofsolomon", "SNG"}, {"song", "SNG"}, {"sng", "SNG"},
	{"isaiah", "ISA"}, {"isa", "ISA"},
	{"jeremiah", "JER"}, {"jer", "JER"},
	{"lamentations", "LAM"}, {"lam", "LAM"},
	{"ezekiel", "EZK"}, {"ezek", "EZK"}, {"ezk", "EZK"},
	{"daniel", "DAN"}, {"dan", "DAN"},
	{"hosea", "HOS"}, {"hos", "HOS"},
	{"joel", "JOL"}, {"jol", "JOL"},
	{"amos", "AMO"}, {"amo", "AMO"},
	{"obadiah", "OBA"}, {"obad", "OBA"}, {"oba", "OBA"},
	{"jonah", "JON"}, {"jon", "JON"},
	{"micah", "MIC"}, {"mic", "MIC"},
	{"nahum", "NAM"}, {"nah", "NAM"}, {"nam", "NAM"},
	{"habakkuk", "HAB"}, {"hab", "HAB"},
	{"zephaniah", "ZEP"}, {"zeph", "ZEP"}, {"zep", "ZEP"},
	{"haggai", "HAG"}, {"hag", "HAG"},
	{"zechariah", "ZEC"}, {"zech", "ZEC"}, {"zec", "ZEC"},
	{"malachi", "MAL"}, {"mal", "MAL"},
	{"matthew", "MAT"}, {"matt", "MAT"}, {"mat", "MAT"},
	{"mark", "MRK"}, {"mrk", "MRK"}, {"mk", "MRK"},
	{"luke", "LUK"}, {"luk", "LUK"}, {"lk", "LUK"},
	{"john", "JHN"}, {"jhn", "JHN"}, {"jn", "JHN"},
	{"acts", "ACT"}, {"act", "ACT"},
	{"romans", "ROM"}, {"rom", "ROM"},
	{"1corinthians", "1CO"}, {"1cor", "1CO"}, {"1co", "1CO"},
	{"2corinthians", "2CO"}, {"2cor", "2CO"}, {"2co", "2CO"},
	{"galatians", "GAL"}, {"gal", "GAL"},
	{"ephesians", "EPH"}, {"eph", "EPH"},
	{"philippians", "PHP"}, {"phil", "PHP"}, {"php", "PHP"},
	{"colossians", "COL"}, {"col", "COL"},
	{"1thessalonians", "1TH"}, {"1thess", "1TH"}, {"1th", "1TH"},
	{"2thessalonians", "2TH"}, {"2thess", "2TH"}, {"2th", "2TH"},
	{"1timothy", "1TI"}, {"1tim", "1TI"}, {"1ti", "1TI"},
	{"2timothy", "2TI"}, {"2tim", "2TI"}, {"2ti", "2TI"},
	{"titus", "TIT"}, {"tit", "TIT"},
	{"philemon", "PHM"}, {"phlm", "PHM"}, {"phm", "PHM"},
	{"hebrews", "HEB"}, {"heb", "HEB"},
	{"james", "JAS"}, {"jas", "JAS"},
	{"1peter", "1PE"}, {"1pet", "1PE"}, {"1pe", "1PE"},
	{"2peter", "2PE"}, {"2pet", "2PE"}, {"2pe", "2PE"},
	{"1john", "1JN"}, {"1jn", "1JN"},
	{"2john", "2JN"}, {"2jn", "2JN"},
	{"3john", "3JN"}, {"3jn", "3JN"},
	{"jude", "JUD"}, {"jud", "JUD"},
	{"revelation", "REV"}, {"rev", "REV"},
}

// BookCode resolves a book name or abbreviation to its canonical code.
// The lookup is case-insensitive and ignores spaces and periods, so
// "1 John", "1john" and "1 Jn." all resolve to "1JN".
func BookCode(name string) (string, bool) {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, ".", "")
	for _, entry := range bookTable {
		if entry.name == key {
			return entry.code, true
		}
	}
	return "", false
}
