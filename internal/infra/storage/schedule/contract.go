package schedule

import "github.com/m04kA/barber-booking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
