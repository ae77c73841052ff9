// Package issue models validator findings and groups them for display.
//
// # Data model
//
// Finding is one entry reported by the remote HL7 v2 validator. It is never
// judged here: an empty classification or category is an ordinary key.
//
// Aggregate turns a flat, already ordered []Finding into
//
//	[]ClassGroup            // first-seen order of Classification
//	  └ []CategoryGroup     // first-seen order of Category within the class
//	      └ []Finding       // original relative order
//
// Sizes always equal the number of members. Nothing is sorted, filtered or
// deduplicated, and groups are rebuilt wholesale for every validation result.
package issue
