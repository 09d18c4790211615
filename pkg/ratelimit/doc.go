// Package ratelimit paces board-page navigations so a multi-feed run
// stays well under the site's tolerance.
//
// Two implementations of the Limiter interface are provided: TokenBucket
// caps navigations per refill period and tolerates bursts, Pacer enforces
// a fixed minimum gap between consecutive navigations. The orchestrator
// uses a TokenBucket sized from the pages-per-minute setting.
package ratelimit
