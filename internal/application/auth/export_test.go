package auth

import "time"

func (uc *RegistrationUseCase) SetClock(now func() time.Time) { uc.now = now }

func (uc *RegistrationUseCase) SetCodeGenerator(f func() (string, error)) { uc.newCode = f }

var GenerateCode = generateCode
