package srv

type Srv struct {
	rbac *RBACSrv
}

func SetupSrvs() *Srv {
	return &Srv{
		rbac: SetupRBACSrv(),
	}
}

func (s *Srv) RBAC() *RBACSrv {
	return s.rbac
}
