package x11fb

// withErrorTrap runs op with an error sink installed on dpy.
//
// The server reports some failures out of band, after the request that
// caused them has already returned. The sink is read only after a sync
// round trip so those failures are not missed. The previous handler is
// restored before returning.
func withErrorTrap(dpy Display, op func() error) error {
	var trapped error
	prev := dpy.SetErrorHandler(func(err error) {
		if trapped == nil {
			trapped = err
		}
	})
	opErr := op()
	syncErr := dpy.Sync()
	dpy.SetErrorHandler(prev)

	switch {
	case opErr != nil:
		return opErr
	case trapped != nil:
		return trapped
	}
	return syncErr
}
