package postgres

// supportFunctions lists every SQL function the condition layer can embed.
// Keep in sync with the fn* constants in package encql.
var supportFunctions = []string{
	"cs_match_v2",
	"cs_ste_vec_contains_v2",
	"cs_ste_vec_term_v2",
	"cs_ste_vec_terms_v2",
	"cs_ste_vec_value_v2",
	"cs_ste_vec_path_exists_v2",
	"cs_ste_vec_array_length_v2",
	"cs_order_by_v2",
}

func supportFunctionArray() []string {
	out := make([]string, len(supportFunctions))
	copy(out, supportFunctions)
	return out
}
