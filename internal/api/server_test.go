package api

import "testing"

func paramsFrom(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestParseListParamsDefaults(t *testing.T) {
	params := parseListParams(paramsFrom(nil))
	if params.Limit != 50 {
		t.Errorf("limit default = %d, want 50", params.Limit)
	}
	if params.Offset != 0 {
		t.Errorf("offset default = %d, want 0", params.Offset)
	}
	if params.Sort != "" || params.Category != "" || params.Search != "" {
		t.Errorf("unexpected defaults: %+v", params)
	}
	if params.RevenueMin != nil || params.RevenueMax != nil {
		t.Error("revenue bounds must default to nil")
	}
}

func TestParseListParams(t *testing.T) {
	params := parseListParams(paramsFrom(map[string]string{
		"category":    "developer-tools",
		"search":      "  ship  ",
		"sort":        "revenue-desc",
		"limit":       "20",
		"offset":      "40",
		"revenue_min": "100000",
		"revenue_max": "5000000",
	}))

	if params.Category != "developer-tools" || params.Sort != "revenue-desc" {
		t.Errorf("params = %+v", params)
	}
	if params.Search != "ship" {
		t.Errorf("search must be trimmed: %q", params.Search)
	}
	if params.Limit != 20 || params.Offset != 40 {
		t.Errorf("paging = %d/%d", params.Limit, params.Offset)
	}
	if params.RevenueMin == nil || params.RevenueMin.String() != "100000" {
		t.Errorf("revenue_min = %v", params.RevenueMin)
	}
	if params.RevenueMax == nil || params.RevenueMax.String() != "5000000" {
		t.Errorf("revenue_max = %v", params.RevenueMax)
	}
}

func TestParseListParamsRejectsBadInput(t *testing.T) {
	params := parseListParams(paramsFrom(map[string]string{
		"limit":       "-5",
		"offset":      "abc",
		"revenue_min": "not-a-number",
		"revenue_max": "-100",
	}))

	if params.Limit != 50 || params.Offset != 0 {
		t.Errorf("bad paging input must fall back: %d/%d", params.Limit, params.Offset)
	}
	if params.RevenueMin != nil || params.RevenueMax != nil {
		t.Error("bad revenue bounds must be ignored")
	}
}

func TestParseListParamsCapsLimit(t *testing.T) {
	params := parseListParams(paramsFrom(map[string]string{"limit": "9999"}))
	if params.Limit != 100 {
		t.Errorf("limit = %d, want cap at 100", params.Limit)
	}
}
