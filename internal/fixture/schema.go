package fixture

// schemaCEL is the shared attribute schema for schema-aware engines. It is
// parsed once per run and reused across every scenario; all catalogue
// attribute records carry exactly these attributes.
const schemaCEL = `entity: subject
attributes:
  role: string
  level: int
  status: string
  age: int
  score: int
  department: string
  clearance: int
  tenure: int
  karma: int
  warnings: int
  reputation: int
  verified: bool
  region: string
  restricted_flag: string
  account_age: int
  trust_score: int
  subscription: string
  trial: bool
  flags: string_list
  ids: string_list
`

// Schema returns the shared schema source for a dialect. Dialects without a
// schema concept get an empty source; their engines treat it as absent.
func Schema(d Dialect) string {
	switch d {
	case DialectCEL:
		return schemaCEL
	case DialectRego:
		return ""
	}
	panic(unknownDialect(d))
}
