package classification

// defaultCategoryRules maps spending categories to the keywords that imply
// them. Evaluated in the order of categoryOrder; within a category any
// keyword hit is a match.
var defaultCategoryRules = map[string][]string{
	"Food": {
		"naivas", "carrefour", "quickmart", "tuskys", "nakumatt", "shoprite",
		"chandarana", "eastmatt", "cleanshelf", "uchumi", "choppies",
		"kfc", "pizza", "burger", "restaurant", "cafe", "hotel",
		"food", "meal", "lunch", "dinner", "breakfast", "snack",
		"delivery", "glovo", "uber eats", "bolt food", "jumia food",
	},
	"Transport": {
		"uber", "bolt", "taxi", "matatu", "bus", "transport",
		"fuel", "petrol", "diesel", "parking", "toll",
		"train", "sgr", "kenya railways", "car wash",
		"insurance", "motor", "vehicle", "garage", "mechanic",
	},
	"Utilities": {
		"kplc", "kenya power", "electricity", "power",
		"nairobi water", "water", "sewerage",
		"zuku", "safaricom", "airtel", "telkom", "internet",
		"dstv", "gotv", "showmax", "netflix", "startimes",
		"gas", "cooking gas", "mykgas",
	},
	"Shopping": {
		"amazon", "jumia", "kilimall", "masoko", "online",
		"electronics", "computer", "phone", "mobile",
		"clothes", "fashion", "shoes", "accessories",
		"beauty", "cosmetics", "salon", "barber",
		"books", "stationery", "office",
	},
	"Health": {
		"hospital", "clinic", "medical", "doctor", "pharmacy",
		"medicine", "drugs", "prescription", "health",
		"dental", "dentist", "eye", "optical", "lab",
		"nhif", "insurance", "medical cover",
	},
	"Education": {
		"school", "college", "university", "education",
		"fees", "tuition", "course", "training",
		"books", "learning", "exam", "certification",
	},
	"Entertainment": {
		"cinema", "movie", "film", "concert", "music",
		"games", "gaming", "sports", "gym", "fitness",
		"club", "bar", "entertainment", "recreation",
		"betting", "sportpesa", "betika", "betin",
	},
	"Airtime": {
		"airtime", "bundle", "data", "sms", "call",
		"safaricom airtime", "airtel airtime", "telkom airtime",
	},
	"Financial": {
		"bank", "atm", "withdraw", "deposit", "transfer",
		"loan", "credit", "savings", "investment",
		"equity", "kcb", "cooperative", "family bank",
		"stanbic", "standard chartered", "barclays", "absa",
	},
}

// categoryOrder fixes evaluation order; Go map iteration is randomized and
// overlapping keywords ("insurance" is in both Transport and Health) must
// resolve the same way every run.
var categoryOrder = []string{
	"Food", "Transport", "Utilities", "Shopping", "Health",
	"Education", "Entertainment", "Airtime", "Financial",
}

// paybillCategories maps paybill description keywords to categories.
var paybillCategories = map[string]string{
	"kplc":       "Utilities",
	"zuku":       "Utilities",
	"dstv":       "Utilities",
	"water":      "Utilities",
	"nhif":       "Health",
	"school":     "Education",
	"university": "Education",
	"betting":    "Entertainment",
	"sacco":      "Financial",
	"loan":       "Financial",
}
