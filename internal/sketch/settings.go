package sketch

import "fmt"

const settingsRemedy = "call it from Settings()"

// checkConfigurable returns a *ConfigError unless the sketch is in its
// configuration window or the caller is a trusted host.
func (s *Sketch) checkConfigurable(call string) error {
	if s.trusted || s.State() == ConfiguringSettings {
		return nil
	}
	err := &ConfigError{Call: call, Remedy: settingsRemedy}
	s.logger.Error("%v", err)
	return err
}

// Size sets the canvas size.
func (s *Sketch) Size(width, height int) error {
	if err := s.checkConfigurable("Size"); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidSetting, width, height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Width = width
	s.settings.Height = height
	return nil
}

// FullScreen asks for a canvas covering the whole display.
func (s *Sketch) FullScreen() error {
	if err := s.checkConfigurable("FullScreen"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.FullScreen = true
	return nil
}

// Smooth sets the anti-aliasing level. 0 disables it.
func (s *Sketch) Smooth(level int) error {
	if err := s.checkConfigurable("Smooth"); err != nil {
		return err
	}
	if level < 0 {
		return fmt.Errorf("%w: smooth level %d", ErrInvalidSetting, level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Smooth = level
	return nil
}

// PixelDensity sets the number of device pixels per canvas unit.
func (s *Sketch) PixelDensity(density float64) error {
	if err := s.checkConfigurable("PixelDensity"); err != nil {
		return err
	}
	if density <= 0 {
		return fmt.Errorf("%w: pixel density %v", ErrInvalidSetting, density)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.PixelDensity = density
	return nil
}
