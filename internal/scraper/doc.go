// Package scraper provides HTTP fetching of the KOERI recent-earthquakes
// bulletin and the Latest/LatestN operations built on top of it.
//
// Each call performs exactly one GET and one parse. Transport failures, non-2xx
// responses and undecodable bodies surface as *FetchError; page-shape and
// column failures surface as the bulletin package's error types. No partial
// results are ever returned.
package scraper
