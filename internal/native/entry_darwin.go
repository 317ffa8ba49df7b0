package native

// purego passes and returns structs by value on darwin, so the entry points
// are bound directly.

func bindGenerate(sym uintptr) (generateFunc, error) {
	var fn generateFunc
	if err := register(&fn, sym); err != nil {
		return nil, err
	}
	return fn, nil
}

func bindRender(sym uintptr) (renderFunc, error) {
	var fn renderFunc
	if err := register(&fn, sym); err != nil {
		return nil, err
	}
	return fn, nil
}
