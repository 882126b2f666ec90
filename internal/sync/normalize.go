package sync

import "strings"

// apiCivIDs maps AoE4 World civilization slugs to canonical civilization ids
var apiCivIDs = map[string]string{
	"abbasid":             "abbasid",
	"ayyubids":            "ayyubids",
	"byzantines":          "byzantines",
	"chinese":             "chinese",
	"delhi":               "delhi",
	"english":             "english",
	"french":              "french",
	"hre":                 "hre",
	"japanese":            "japanese",
	"malians":             "malians",
	"mongols":             "mongols",
	"ottomans":            "ottomans",
	"rus":                 "rus",
	"golden-horde":        "golden_horde",
	"jeanne-darc":         "jeanne_darc",
	"lancaster":           "lancaster",
	"macedonian":          "macedonian",
	"order-of-the-dragon": "order_of_the_dragon",
	"sengoku":             "sengoku",
	"templar":             "templar",
	"tughlaq":             "tughlaq",
	"zhu-xis-legacy":      "zhuxi",
}

// NormalizeCivID converts an API civilization slug to its canonical id.
// Slugs missing from the table have hyphens replaced with underscores.
func NormalizeCivID(slug string) string {
	if id, ok := apiCivIDs[slug]; ok {
		return id
	}
	return strings.ReplaceAll(slug, "-", "_")
}
