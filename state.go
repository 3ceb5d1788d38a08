package lines

// Style is the current stroke and fill style.
type Style struct {
	Color       RGBA // stroke color; alpha is the global alpha
	LineWidth   float32
	StrokeStyle string
	FillColor   RGBA
	FillStyle   string
}

func defaultStyle() Style {
	return Style{
		Color:       Black,
		LineWidth:   1,
		StrokeStyle: "#000000",
		FillColor:   Black,
		FillStyle:   "#000000",
	}
}

// Transform is the current point transform. A 2D builder uses Matrix, a 3D
// builder uses Mat4. IsIdentity is cleared by every mutation and never
// re-detected.
type Transform struct {
	IsIdentity bool
	Matrix     Matrix
	Mat4       Mat4
}

func identityTransform() Transform {
	return Transform{
		IsIdentity: true,
		Matrix:     Identity(),
		Mat4:       Identity4(),
	}
}

// savedState is one save stack entry. All fields are values, so later
// mutations of the live state never reach a snapshot.
type savedState struct {
	style     Style
	transform Transform
}
