// Package nominatim provides a geocoding client for the OpenStreetMap
// Nominatim search API.
//
// # Usage
//
//	client := nominatim.NewClient(c, 30*24*time.Hour)
//	places, err := client.Search(ctx, "Virginia Beach, VA", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(places[0].Name, places[0].Latitude, places[0].Longitude)
//
// # Caching
//
// Results are cached per normalized query. Nominatim asks clients to cache
// and to send at most one request per second, so repeated chart renders for
// the same place never reach the network. Pass refresh=true to [Client.Search]
// to bypass the cache.
//
// # Errors
//
// A query with no results returns an error with code LOCATION_NOT_FOUND.
// Network failures and 5xx responses are retried with backoff.
package nominatim
