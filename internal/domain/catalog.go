package domain

// IndiaRegions lists the administrative regions drawn by the India map, in
// map order. IDs follow the map geometry identifiers.
var IndiaRegions = []Region{
	{ID: "an", Name: "Andaman and Nicobar Islands"},
	{ID: "ap", Name: "Andhra Pradesh"},
	{ID: "ar", Name: "Arunachal Pradesh"},
	{ID: "as", Name: "Assam"},
	{ID: "br", Name: "Bihar"},
	{ID: "ch", Name: "Chandigarh"},
	{ID: "ct", Name: "Chhattisgarh"},
	{ID: "dn", Name: "Dadra and Nagar Haveli"},
	{ID: "dd", Name: "Daman and Diu"},
	{ID: "dl", Name: "Delhi"},
	{ID: "ga", Name: "Goa"},
	{ID: "gj", Name: "Gujarat"},
	{ID: "hr", Name: "Haryana"},
	{ID: "hp", Name: "Himachal Pradesh"},
	{ID: "jk", Name: "Jammu and Kashmir"},
	{ID: "jh", Name: "Jharkhand"},
	{ID: "ka", Name: "Karnataka"},
	{ID: "kl", Name: "Kerala"},
	{ID: "ld", Name: "Lakshadweep"},
	{ID: "mp", Name: "Madhya Pradesh"},
	{ID: "mh", Name: "Maharashtra"},
	{ID: "mn", Name: "Manipur"},
	{ID: "ml", Name: "Meghalaya"},
	{ID: "mz", Name: "Mizoram"},
	{ID: "nl", Name: "Nagaland"},
	{ID: "or", Name: "Odisha"},
	{ID: "py", Name: "Puducherry"},
	{ID: "pb", Name: "Punjab"},
	{ID: "rj", Name: "Rajasthan"},
	{ID: "sk", Name: "Sikkim"},
	{ID: "tn", Name: "Tamil Nadu"},
	{ID: "tg", Name: "Telangana"},
	{ID: "tr", Name: "Tripura"},
	{ID: "up", Name: "Uttar Pradesh"},
	{ID: "ut", Name: "Uttarakhand"},
	{ID: "wb", Name: "West Bengal"},
}

// FindRegion looks up a catalog entry by exact display name.
func FindRegion(name string) (Region, bool) {
	for _, r := range IndiaRegions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}
