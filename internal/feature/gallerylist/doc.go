// Package gallerylist is the paginated gallery list shared by the watched,
// search and associated features: a primary fetch that replaces the list,
// "more" fetches that merge into it, and the loading states that keep at
// most one of each in flight.
package gallerylist
