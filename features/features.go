// Package features declares the credit scoring feature repository: zip code
// demographics and credit history keyed by applicant.
package features

import (
	"time"

	"github.com/credit-scoring/feature-repo/constants"
	"github.com/credit-scoring/feature-repo/domain"
)

const featureTTL = 3650 * 24 * time.Hour

var Zipcode = &domain.Entity{
	Name:      "zipcode",
	ValueType: constants.FS_INT64,
	JoinKeys:  []string{"zipcode"},
}

var ZipcodeSource = &domain.RedshiftSource{
	Table:                  "zipcode_features",
	TimestampField:         "event_timestamp",
	CreatedTimestampColumn: "created_timestamp",
	Schema:                 "spectrum",
	Database:               "dev",
}

var ZipcodeFeatures = &domain.FeatureView{
	Name:     "zipcode_features",
	Entities: []*domain.Entity{Zipcode},
	TTL:      featureTTL,
	Schema: []domain.Field{
		{Name: "city", Dtype: constants.FS_STRING},
		{Name: "state", Dtype: constants.FS_STRING},
		{Name: "location_type", Dtype: constants.FS_STRING},
		{Name: "tax_returns_filed", Dtype: constants.FS_INT64},
		{Name: "population", Dtype: constants.FS_INT64},
		{Name: "total_wages", Dtype: constants.FS_INT64},
	},
	Source: ZipcodeSource,
	Online: true,
}

var DobSsn = &domain.Entity{
	Name:      "dob_ssn",
	ValueType: constants.FS_STRING,
	JoinKeys:  []string{"dob_ssn"},
}

var CreditHistorySource = &domain.RedshiftSource{
	Table:                  "credit_history",
	TimestampField:         "event_timestamp",
	CreatedTimestampColumn: "created_timestamp",
	Schema:                 "spectrum",
	Database:               "dev",
}

var CreditHistory = &domain.FeatureView{
	Name:     "credit_history",
	Entities: []*domain.Entity{DobSsn},
	TTL:      featureTTL,
	Schema: []domain.Field{
		{Name: "credit_card_due", Dtype: constants.FS_INT64},
		{Name: "mortgage_due", Dtype: constants.FS_INT64},
		{Name: "student_loan_due", Dtype: constants.FS_INT64},
		{Name: "vehicle_loan_due", Dtype: constants.FS_INT64},
		{Name: "hard_pulls", Dtype: constants.FS_INT64},
		{Name: "missed_payments_2y", Dtype: constants.FS_INT64},
		{Name: "missed_payments_1y", Dtype: constants.FS_INT64},
		{Name: "missed_payments_6m", Dtype: constants.FS_INT64},
		{Name: "bankruptcies", Dtype: constants.FS_INT64},
	},
	Source: CreditHistorySource,
	Online: true,
}

// CreditScoringV1 is the feature set the credit scoring model requests per
// loan application.
var CreditScoringV1 = &domain.FeatureService{
	Name: "credit_scoring_v1",
	Features: []domain.FeatureViewProjection{
		ZipcodeFeatures.Select(),
		CreditHistory.Select(),
	},
}

// Declarations returns every declared object in declaration order.
func Declarations() []domain.Object {
	return []domain.Object{
		Zipcode,
		ZipcodeSource,
		ZipcodeFeatures,
		DobSsn,
		CreditHistorySource,
		CreditHistory,
		CreditScoringV1,
	}
}
