package anaf

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CountyCodeBucharest is the single subdivision code for the capital.
// Bucharest sectors are not separately coded; all six collapse to RO-B.
const CountyCodeBucharest = "RO-B"

// countyAliases maps folded county spellings (uppercase, no diacritics,
// collapsed whitespace) to their ISO 3166-2:RO code. Contains the official
// names, the two-letter codes, legacy î-spellings and frequent variants.
var countyAliases = map[string]string{
	"ALBA": "RO-AB", "AB": "RO-AB",
	"ARAD": "RO-AR", "AR": "RO-AR",
	"ARGES": "RO-AG", "AG": "RO-AG",
	"BACAU": "RO-BC", "BC": "RO-BC",
	"BIHOR": "RO-BH", "BH": "RO-BH",
	"BISTRITA NASAUD": "RO-BN", "BN": "RO-BN", "BISTRITA": "RO-BN",
	"BOTOSANI": "RO-BT", "BT": "RO-BT",
	"BRASOV": "RO-BV", "BV": "RO-BV",
	"BRAILA": "RO-BR", "BR": "RO-BR",
	"BUCURESTI": "RO-B", "B": "RO-B", "BUCHAREST": "RO-B", "BUCAREST": "RO-B",
	"BUZAU": "RO-BZ", "BZ": "RO-BZ",
	"CARAS SEVERIN": "RO-CS", "CS": "RO-CS",
	"CALARASI": "RO-CL", "CL": "RO-CL",
	"CLUJ": "RO-CJ", "CJ": "RO-CJ",
	"CONSTANTA": "RO-CT", "CT": "RO-CT",
	"COVASNA": "RO-CV", "CV": "RO-CV",
	"DAMBOVITA": "RO-DB", "DB": "RO-DB", "DIMBOVITA": "RO-DB",
	"DOLJ": "RO-DJ", "DJ": "RO-DJ",
	"GALATI": "RO-GL", "GL": "RO-GL",
	"GIURGIU": "RO-GR", "GR": "RO-GR",
	"GORJ": "RO-GJ", "GJ": "RO-GJ",
	"HARGHITA": "RO-HR", "HR": "RO-HR",
	"HUNEDOARA": "RO-HD", "HD": "RO-HD",
	"IALOMITA": "RO-IL", "IL": "RO-IL",
	"IASI": "RO-IS", "IS": "RO-IS",
	"ILFOV": "RO-IF", "IF": "RO-IF", "SECTORUL AGRICOL ILFOV": "RO-IF",
	"MARAMURES": "RO-MM", "MM": "RO-MM",
	"MEHEDINTI": "RO-MH", "MH": "RO-MH",
	"MURES": "RO-MS", "MS": "RO-MS",
	"NEAMT": "RO-NT", "NT": "RO-NT",
	"OLT": "RO-OT", "OT": "RO-OT",
	"PRAHOVA": "RO-PH", "PH": "RO-PH",
	"SATU MARE": "RO-SM", "SM": "RO-SM",
	"SALAJ": "RO-SJ", "SJ": "RO-SJ",
	"SIBIU": "RO-SB", "SB": "RO-SB",
	"SUCEAVA": "RO-SV", "SV": "RO-SV",
	"TELEORMAN": "RO-TR", "TR": "RO-TR",
	"TIMIS": "RO-TM", "TM": "RO-TM",
	"TULCEA": "RO-TL", "TL": "RO-TL",
	"VASLUI": "RO-VS", "VS": "RO-VS",
	"VALCEA": "RO-VL", "VL": "RO-VL", "VILCEA": "RO-VL",
	"VRANCEA": "RO-VN", "VN": "RO-VN",
}

// countyPrefixes are administrative qualifiers stripped before the second
// lookup attempt: "Judetul Cluj" -> "Cluj", "Municipiul Bucuresti" ->
// "Bucuresti".
var countyPrefixes = []string{
	"JUDETUL ", "JUDET ", "JUD ",
	"MUNICIPIUL ", "MUN ",
	"ORASUL ", "ORAS ",
	"COMUNA ", "COM ",
}

// sectorPattern matches a Bucharest sector reference in its usual
// morphological forms: "Sector 3", "sectorul 2", "sect. 1", "SECTOR3".
var sectorPattern = regexp.MustCompile(`(?:^|\s)(?:SECTORUL|SECTOR|SECT|SEC)\s*([1-6])(?:\s|$)`)

// diacriticFolder strips combining marks after NFD decomposition, turning
// ș/ț/ă/â/î (and the legacy cedilla forms ş/ţ) into their base letters.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldCounty uppercases the text, folds Romanian diacritics to base Latin
// letters, turns punctuation into spaces and collapses runs of whitespace.
// All county lookups operate on this canonical form.
func FoldCounty(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeCounty maps a free-text county name to its ISO 3166-2:RO code.
// Lookup order: exact alias match on the folded text, then one retry with a
// leading administrative prefix stripped, then the sector pattern (any
// Bucharest sector resolves to RO-B). Returns ok=false when unmatched; the
// caller decides whether that is fatal (it is for domestic addresses).
func NormalizeCounty(s string) (string, bool) {
	folded := FoldCounty(s)
	if folded == "" {
		return "", false
	}
	if code, ok := countyAliases[folded]; ok {
		return code, true
	}
	for _, prefix := range countyPrefixes {
		if strings.HasPrefix(folded, prefix) {
			if code, ok := countyAliases[folded[len(prefix):]]; ok {
				return code, true
			}
			break
		}
	}
	if _, ok := SectorNumber(s); ok {
		return CountyCodeBucharest, true
	}
	return "", false
}

// SectorNumber extracts a Bucharest sector number (1-6) from the text.
func SectorNumber(s string) (int, bool) {
	m := sectorPattern.FindStringSubmatch(FoldCounty(s))
	if m == nil {
		return 0, false
	}
	return int(m[1][0] - '0'), true
}

// IsBucharest reports whether the text refers to the capital, either by
// name/alias, by a sector reference, or by normalizing to RO-B. The three
// checks agree by construction and are pinned by tests.
func IsBucharest(s string) bool {
	if countyAliases[FoldCounty(s)] == CountyCodeBucharest {
		return true
	}
	if _, ok := SectorNumber(s); ok {
		return true
	}
	code, ok := NormalizeCounty(s)
	return ok && code == CountyCodeBucharest
}
