package logger

// LogSessionLookup logs the outcome of a per-user session credential lookup.
// Only presence and length are recorded, never the secret itself.
func LogSessionLookup(userID, envVar string, found bool, secretLen int) {
	fields := map[string]interface{}{
		"user_id":    userID,
		"env_var":    envVar,
		"found":      found,
		"secret_len": secretLen,
	}

	if found {
		GetLogger().DebugWithFields("Session credential resolved", fields)
	} else {
		GetLogger().WarnWithFields("Session credential missing", fields)
	}
}

// LogFeedResult logs the persisted outcome for one feed
func LogFeedResult(userID, feedID string, pinCount int, errKind string) {
	fields := map[string]interface{}{
		"user_id": userID,
		"feed_id": feedID,
	}

	if errKind != "" {
		fields["error_kind"] = errKind
		GetLogger().WarnWithFields("Feed finished with error record", fields)
		return
	}

	fields["pin_count"] = pinCount
	GetLogger().InfoWithFields("Feed scraped", fields)
}

// LogStrategyHit logs which selector strategy matched a board page
func LogStrategyHit(strategy string, candidates int) {
	GetLogger().DebugWithFields("Selector strategy matched", map[string]interface{}{
		"strategy":   strategy,
		"candidates": candidates,
	})
}
