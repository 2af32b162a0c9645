package ncaam

// Page is one page of a cursor-paginated list response.
type Page struct {
	Data       []interface{}
	NextCursor string
}

func parsePage(resp map[string]interface{}) Page {
	meta := extractMap(resp, "meta")
	return Page{
		Data:       extractArray(resp, "data"),
		NextCursor: extractID(meta, "next_cursor"),
	}
}
