package roadshape

// StandardLaneWidth is the width of the lane in meters if nothing is specified
const StandardLaneWidth = 3.7

type DirectionType uint16

const (
	DIRECTION_UNKNOWN = DirectionType(iota + 1)
	DIRECTION_FORWARD
	DIRECTION_BACKWARD
)

func (iotaIdx DirectionType) String() string {
	return [...]string{"unknown", "forward", "backward"}[iotaIdx-1]
}

type TurnType uint16

const (
	TURN_NONE = TurnType(iota + 1)
	TURN_MERGE_TO_LEFT
	TURN_SLIGHT_LEFT
	TURN_SLIGHT_RIGHT
)

func (iotaIdx TurnType) String() string {
	return [...]string{"none", "merge_to_left", "slight_left", "slight_right"}[iotaIdx-1]
}

type ChangeType uint16

const (
	CHANGE_NOT_LEFT = ChangeType(iota + 1)
	CHANGE_NOT_RIGHT
)

func (iotaIdx ChangeType) String() string {
	return [...]string{"not_left", "not_right"}[iotaIdx-1]
}

// Lane is a single lane of the road. Zero values of the enums and HasX flags mean "not set"
type Lane struct {
	Destination string
	Width       float64 // meters, valid only if HasWidth
	MinSpeed    float64 // valid only if HasMinSpeed
	HasWidth    bool
	HasMinSpeed bool
	Direction   DirectionType
	Turn        TurnType
	Change      ChangeType
}

// NewLane returns lane with no attributes set
func NewLane() Lane {
	return Lane{Direction: DIRECTION_UNKNOWN}
}

// GetWidth returns lane width multiplied by scale. Standard 3.7 m lane is used if width is not set
func (lane Lane) GetWidth(scale float64) float64 {
	if !lane.HasWidth {
		return StandardLaneWidth * scale
	}
	return lane.Width * scale
}

// IsForward returns (is_forward, is_known)
func (lane Lane) IsForward() (bool, bool) {
	switch lane.Direction {
	case DIRECTION_FORWARD:
		return true, true
	case DIRECTION_BACKWARD:
		return false, true
	default:
		return false, false
	}
}

// setForward marks the lane direction. Has effect only once
func (lane *Lane) setForward(isForward bool) {
	if lane.Direction != DIRECTION_UNKNOWN && lane.Direction != 0 {
		return
	}
	if isForward {
		lane.Direction = DIRECTION_FORWARD
	} else {
		lane.Direction = DIRECTION_BACKWARD
	}
}

// lanesWidth returns sum of lanes widths
func lanesWidth(lanes []Lane, scale float64) float64 {
	total := 0.0
	for _, lane := range lanes {
		total += lane.GetWidth(scale)
	}
	return total
}
