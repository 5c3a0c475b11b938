package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed values for deterministic event and portfolio tests.
var (
	TestAssessmentID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestAssessmentID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestUsername      = "analyst"
	TestTime          = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)
