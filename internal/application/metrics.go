package application

import "expvar"

// Counters published under /debug/vars.
var (
	metricAccountsRegistered  = expvar.NewInt("accounts_registered")
	metricLoginsSucceeded     = expvar.NewInt("logins_succeeded")
	metricLoginsFailed        = expvar.NewInt("logins_failed")
	metricProfileUpdates      = expvar.NewInt("profile_updates")
	metricJobsPosted          = expvar.NewInt("jobs_posted")
	metricApplicationsCreated = expvar.NewInt("applications_created")
)
