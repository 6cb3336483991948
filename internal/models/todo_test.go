package models

import "testing"

func TestNewPageMeta(t *testing.T) {
	cases := []struct {
		name                     string
		page, limit, total       int
		wantPages                int
		wantHasNext, wantHasPrev bool
	}{
		{"empty", 1, 10, 0, 0, false, false},
		{"single partial page", 1, 10, 3, 1, false, false},
		{"exact multiple", 2, 5, 10, 2, false, true},
		{"first of many", 1, 3, 10, 4, true, false},
		{"middle", 2, 3, 10, 4, true, true},
		{"last", 4, 3, 10, 4, false, true},
		{"past the end", 7, 3, 10, 4, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewPageMeta(tc.page, tc.limit, tc.total)
			if m.TotalPages != tc.wantPages {
				t.Errorf("TotalPages = %d; want %d", m.TotalPages, tc.wantPages)
			}
			if m.HasNextPage != tc.wantHasNext {
				t.Errorf("HasNextPage = %v; want %v", m.HasNextPage, tc.wantHasNext)
			}
			if m.HasPrevPage != tc.wantHasPrev {
				t.Errorf("HasPrevPage = %v; want %v", m.HasPrevPage, tc.wantHasPrev)
			}
		})
	}
}

func TestParseQueryEnums(t *testing.T) {
	if got := ParseStatusFilter("Active"); got != StatusActive {
		t.Errorf("ParseStatusFilter(Active) = %q", got)
	}
	if got := ParseStatusFilter("done"); got != StatusAll {
		t.Errorf("ParseStatusFilter(done) = %q; want all", got)
	}
	if got := ParseSortField("title"); got != SortByTitle {
		t.Errorf("ParseSortField(title) = %q", got)
	}
	if got := ParseSortField("password"); got != SortByCreatedAt {
		t.Errorf("ParseSortField(password) = %q; want createdAt", got)
	}
	if got := ParseSortOrder("ASC"); got != SortAsc {
		t.Errorf("ParseSortOrder(ASC) = %q", got)
	}
	if got := ParseSortOrder("sideways"); got != SortDesc {
		t.Errorf("ParseSortOrder(sideways) = %q; want desc", got)
	}
}

func TestTodoQueryOffset(t *testing.T) {
	q := TodoQuery{Page: 3, Limit: 20}
	if got := q.Offset(); got != 40 {
		t.Errorf("Offset = %d; want 40", got)
	}
}

func TestTodoQueryNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   TodoQuery
		want TodoQuery
	}{
		{
			name: "zero value",
			in:   TodoQuery{},
			want: TodoQuery{Page: 1, Limit: 10, Status: StatusAll, SortField: SortByCreatedAt, SortOrder: SortDesc},
		},
		{
			name: "negative page and limit",
			in:   TodoQuery{Page: -3, Limit: -1},
			want: TodoQuery{Page: 1, Limit: 10, Status: StatusAll, SortField: SortByCreatedAt, SortOrder: SortDesc},
		},
		{
			name: "limit capped",
			in:   TodoQuery{Page: 2, Limit: 1000, Status: StatusCompleted, SortField: SortByTitle, SortOrder: SortAsc},
			want: TodoQuery{Page: 2, Limit: 100, Status: StatusCompleted, SortField: SortByTitle, SortOrder: SortAsc},
		},
		{
			name: "unknown enums",
			in:   TodoQuery{Page: 1, Limit: 5, Status: "archived", SortField: "userId", SortOrder: "up"},
			want: TodoQuery{Page: 1, Limit: 5, Status: StatusAll, SortField: SortByCreatedAt, SortOrder: SortDesc},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Errorf("Normalize() = %+v; want %+v", got, tc.want)
			}
		})
	}
}
