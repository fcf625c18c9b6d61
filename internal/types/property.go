package types

import "database/sql"

// Column names shared by the source workbooks, the database tables and the export.
const (
	ColRollYear           = "ROLL_YEAR"
	ColRollNumber         = "ROLL_NUMBER"
	ColCommCode           = "COMM_CODE"
	ColCommName           = "COMM_NAME"
	ColAddress            = "ADDRESS"
	ColYearOfConstruction = "YEAR_OF_CONSTRUCTION"
	ColLandSizeSM         = "LAND_SIZE_SM"
	ColLandSizeSF         = "LAND_SIZE_SF"
	ColLandSizeAC         = "LAND_SIZE_AC"
	ColAssessedValue      = "ASSESSED_VALUE"
	ColGrowth             = "% growth"
	ColPerSM              = "$/SM"
	ColPerSF              = "$/SF"
	ColPerAC              = "$/AC"
)

// ConstructionRecord is one row of the year-of-construction source.
type ConstructionRecord struct {
	RollYear           int
	RollNumber         string
	Address            string
	YearOfConstruction sql.NullFloat64
}

// LandRecord is one row of the land-size source.
type LandRecord struct {
	RollYear   int
	RollNumber string
	LandSizeSM sql.NullFloat64
	LandSizeSF sql.NullFloat64
	LandSizeAC sql.NullFloat64
}

// AssessmentRecord is one row of the assessment source.
type AssessmentRecord struct {
	RollYear      int
	Address       string
	RollNumber    string
	CommCode      string
	CommName      string
	AssessedValue sql.NullFloat64
}

// Sources bundles the three record sets produced by a loader.
type Sources struct {
	Construction []ConstructionRecord
	Land         []LandRecord
	Assessment   []AssessmentRecord
}

// Record holds one property in one roll year after the sources are merged.
// Null fields are missing data; Growth may also hold ±Inf when the previous
// assessment was zero.
type Record struct {
	RollYear   int
	CommCode   string
	CommName   string
	RollNumber string
	Address    string

	YearOfConstruction sql.NullFloat64

	LandSizeSM sql.NullFloat64
	LandSizeSF sql.NullFloat64
	LandSizeAC sql.NullFloat64

	AssessedValue sql.NullFloat64
	Growth        sql.NullFloat64

	PerSM sql.NullFloat64
	PerSF sql.NullFloat64
	PerAC sql.NullFloat64
}

// NumericField names a numeric column of Record and knows how to read it.
type NumericField struct {
	Name string
	Get  func(r *Record) sql.NullFloat64
	Set  func(r *Record, v sql.NullFloat64)
}

// NumericFields lists the numeric columns of Record in export order.
var NumericFields = []NumericField{
	{ColYearOfConstruction, func(r *Record) sql.NullFloat64 { return r.YearOfConstruction }, func(r *Record, v sql.NullFloat64) { r.YearOfConstruction = v }},
	{ColLandSizeSM, func(r *Record) sql.NullFloat64 { return r.LandSizeSM }, func(r *Record, v sql.NullFloat64) { r.LandSizeSM = v }},
	{ColLandSizeSF, func(r *Record) sql.NullFloat64 { return r.LandSizeSF }, func(r *Record, v sql.NullFloat64) { r.LandSizeSF = v }},
	{ColLandSizeAC, func(r *Record) sql.NullFloat64 { return r.LandSizeAC }, func(r *Record, v sql.NullFloat64) { r.LandSizeAC = v }},
	{ColAssessedValue, func(r *Record) sql.NullFloat64 { return r.AssessedValue }, func(r *Record, v sql.NullFloat64) { r.AssessedValue = v }},
	{ColGrowth, func(r *Record) sql.NullFloat64 { return r.Growth }, func(r *Record, v sql.NullFloat64) { r.Growth = v }},
	{ColPerSM, func(r *Record) sql.NullFloat64 { return r.PerSM }, func(r *Record, v sql.NullFloat64) { r.PerSM = v }},
	{ColPerSF, func(r *Record) sql.NullFloat64 { return r.PerSF }, func(r *Record, v sql.NullFloat64) { r.PerSF = v }},
	{ColPerAC, func(r *Record) sql.NullFloat64 { return r.PerAC }, func(r *Record, v sql.NullFloat64) { r.PerAC = v }},
}

// Valid wraps v as a present value.
func Valid(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}
