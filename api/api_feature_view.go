package api

import "github.com/antihax/optional"

/*
ListFeatureViewsOpts holds the optional parameters of Registry.ListFeatureViews
  - @param "Pagesize" (optional.Int32) - page size, all views when unset
  - @param "Pagenumber" (optional.Int32) - 1-based page number
  - @param "Entity" (optional.String) - keep views joined on this entity
  - @param "Tag" (optional.String) - "key" or "key=value"
  - @param "Filter" (optional.String) - boolean expression over name, entities, source,
    ttl_seconds, online, owner, tags and fields
*/
type ListFeatureViewsOpts struct {
	Pagesize   optional.Int32
	Pagenumber optional.Int32
	Entity     optional.String
	Tag        optional.String
	Filter     optional.String
}

type ListFeatureViewsResponse struct {
	TotalCount   int `json:"total_count"`
	FeatureViews []*FeatureView
}
