// Package domain contains the value types produced and consumed by the email
// cleaning pipeline (cleaning results, rejections, summaries) and the identity
// types used by the API. These types are intentionally free of infrastructure
// concerns so they can be shared across packages.
package domain
