package models

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&WorkReport{},
		&Complaint{},
		&Attachment{},
		&PointMachine{},
		&Signal{},
		&TrackCircuit{},
		&AxleCounter{},
		&EIUnit{},
		&AssetRequest{},
		&SOSAlert{},
	}
}
