package importsql

import "strings"

// localCivIDs maps local data file slugs to canonical civilization ids
var localCivIDs = map[string]string{
	"abbasid":          "abbasid",
	"ayyubids":         "ayyubids",
	"byzantines":       "byzantines",
	"chinese":          "chinese",
	"delhi":            "delhi",
	"english":          "english",
	"french":           "french",
	"goldenhorde":      "golden_horde",
	"hre":              "hre",
	"japanese":         "japanese",
	"jeannedarc":       "jeanne_darc",
	"lancaster":        "lancaster",
	"macedonian":       "macedonian",
	"malians":          "malians",
	"mongols":          "mongols",
	"orderofthedragon": "order_of_the_dragon",
	"ottomans":         "ottomans",
	"rus":              "rus",
	"sengoku":          "sengoku",
	"templar":          "templar",
	"tughlaq":          "tughlaq",
	"zhuxi":            "zhuxi",
}

// civNames holds display names keyed by local file slug
var civNames = map[string]string{
	"abbasid":          "Abbasid Dynasty",
	"ayyubids":         "Ayyubids",
	"byzantines":       "Byzantines",
	"chinese":          "Chinese",
	"delhi":            "Delhi Sultanate",
	"english":          "English",
	"french":           "French",
	"goldenhorde":      "Golden Horde",
	"hre":              "Holy Roman Empire",
	"japanese":         "Japanese",
	"jeannedarc":       "Jeanne d'Arc",
	"lancaster":        "House of Lancaster",
	"macedonian":       "Macedonian Dynasty",
	"malians":          "Malians",
	"mongols":          "Mongols",
	"orderofthedragon": "Order of the Dragon",
	"ottomans":         "Ottomans",
	"rus":              "Rus",
	"sengoku":          "Sengoku Daimyo",
	"templar":          "Knights Templar",
	"tughlaq":          "Tughlaq Dynasty",
	"zhuxi":            "Zhu Xi's Legacy",
}

// LocalCivID converts a local file slug to a canonical civilization id.
// Unknown slugs have hyphens replaced with underscores.
func LocalCivID(slug string) string {
	if id, ok := localCivIDs[slug]; ok {
		return id
	}
	return strings.ReplaceAll(slug, "-", "_")
}
