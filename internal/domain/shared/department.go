package shared

// Department identifies a stock-holding unit in the supply chain.
// Stock moves between departments only through approved transfer requests.
type Department string

const (
	DeptProcurement   Department = "PROCUREMENT"
	DeptManufacturing Department = "MANUFACTURING"
	DeptDistribution  Department = "DISTRIBUTION"
	DeptRetail        Department = "RETAIL"
	DeptPOS           Department = "POS"
)

// Departments lists all valid departments in chain order
func Departments() []Department {
	return []Department{
		DeptProcurement,
		DeptManufacturing,
		DeptDistribution,
		DeptRetail,
		DeptPOS,
	}
}

// IsValid checks if the department is one of the known departments
func (d Department) IsValid() bool {
	switch d {
	case DeptProcurement, DeptManufacturing, DeptDistribution, DeptRetail, DeptPOS:
		return true
	}
	return false
}

// String returns the string representation of the department
func (d Department) String() string {
	return string(d)
}

// ParseDepartment converts a raw string into a Department
func ParseDepartment(s string) (Department, error) {
	d := Department(s)
	if !d.IsValid() {
		return "", NewDomainError("INVALID_DEPARTMENT", "Unknown department: "+s)
	}
	return d, nil
}
