// SPDX-License-Identifier: MPL-2.0

package container

// Operations is the per-operation strategy table of a Client. The base table
// holds the Docker-compatible recipes; engine variants copy it and replace
// only the entries whose arguments or output differ. A nil entry means the
// engine does not support the operation.
type Operations struct {
	Version        func(c *Client) (PromiseResponse[VersionItem], error)
	CheckInstall   func(c *Client) (PromiseResponse[string], error)
	Info           func(c *Client) (PromiseResponse[InfoItem], error)
	GetEventStream func(c *Client, opts EventStreamOptions) (GeneratorResponse[EventItem], error)
	Login          func(c *Client, opts LoginOptions) (VoidResponse, error)
	Logout         func(c *Client, opts LogoutOptions) (VoidResponse, error)

	BuildImage    func(c *Client, opts BuildImageOptions) (VoidResponse, error)
	ListImages    func(c *Client, opts ListImagesOptions) (PromiseResponse[[]ListImagesItem], error)
	RemoveImages  func(c *Client, opts RemoveImagesOptions) (PromiseResponse[[]string], error)
	PruneImages   func(c *Client, opts PruneImagesOptions) (PromiseResponse[PruneItem], error)
	PullImage     func(c *Client, opts PullImageOptions) (VoidResponse, error)
	PushImage     func(c *Client, opts PushImageOptions) (VoidResponse, error)
	TagImage      func(c *Client, opts TagImageOptions) (VoidResponse, error)
	InspectImages func(c *Client, opts InspectImagesOptions) (PromiseResponse[[]InspectImagesItem], error)

	RunContainer      func(c *Client, opts RunContainerOptions) (PromiseResponse[string], error)
	ExecContainer     func(c *Client, opts ExecContainerOptions) (GeneratorResponse[string], error)
	ListContainers    func(c *Client, opts ListContainersOptions) (PromiseResponse[[]ListContainersItem], error)
	StartContainers   func(c *Client, opts ContainerRefsOptions) (PromiseResponse[[]string], error)
	RestartContainers func(c *Client, opts ContainerRefsOptions) (PromiseResponse[[]string], error)
	StopContainers    func(c *Client, opts StopContainersOptions) (PromiseResponse[[]string], error)
	RemoveContainers  func(c *Client, opts RemoveContainersOptions) (PromiseResponse[[]string], error)
	PruneContainers   func(c *Client) (PromiseResponse[PruneItem], error)
	StatsContainers   func(c *Client, opts StatsContainersOptions) (PromiseResponse[string], error)
	LogsForContainer  func(c *Client, opts LogsForContainerOptions) (GeneratorResponse[string], error)
	InspectContainers func(c *Client, opts InspectContainersOptions) (PromiseResponse[[]InspectContainersItem], error)

	CreateVolume   func(c *Client, opts CreateVolumeOptions) (VoidResponse, error)
	ListVolumes    func(c *Client, opts ListVolumesOptions) (PromiseResponse[[]ListVolumeItem], error)
	RemoveVolumes  func(c *Client, opts RemoveVolumesOptions) (PromiseResponse[[]string], error)
	PruneVolumes   func(c *Client) (PromiseResponse[PruneItem], error)
	InspectVolumes func(c *Client, opts InspectVolumesOptions) (PromiseResponse[[]InspectVolumesItem], error)

	CreateNetwork   func(c *Client, opts CreateNetworkOptions) (VoidResponse, error)
	ListNetworks    func(c *Client, opts ListNetworksOptions) (PromiseResponse[[]ListNetworkItem], error)
	RemoveNetworks  func(c *Client, opts RemoveNetworksOptions) (PromiseResponse[[]string], error)
	PruneNetworks   func(c *Client) (PromiseResponse[PruneItem], error)
	InspectNetworks func(c *Client, opts InspectNetworksOptions) (PromiseResponse[[]InspectNetworksItem], error)

	ListContexts    func(c *Client) (PromiseResponse[[]ListContextItem], error)
	RemoveContexts  func(c *Client, opts ContextsOptions) (PromiseResponse[[]string], error)
	UseContext      func(c *Client, opts UseContextOptions) (VoidResponse, error)
	InspectContexts func(c *Client, opts ContextsOptions) (PromiseResponse[[]InspectContextsItem], error)

	ListFiles func(c *Client, opts ListFilesOptions) (PromiseResponse[[]ListFilesItem], error)
	StatPath  func(c *Client, opts StatPathOptions) (PromiseResponse[*ListFilesItem], error)
	ReadFile  func(c *Client, opts ReadFileOptions) (GeneratorResponse[[]byte], error)
	WriteFile func(c *Client, opts WriteFileOptions) (VoidResponse, error)
}

// baseOperations returns the Docker-compatible defaults. Container stats and
// the four context operations are left unsupported.
func baseOperations() Operations {
	return Operations{
		Version:        versionOp,
		CheckInstall:   checkInstallOp,
		Info:           infoOp,
		GetEventStream: eventStreamOp,
		Login:          loginOp,
		Logout:         logoutOp,

		BuildImage:    buildImageOp,
		ListImages:    listImagesOp,
		RemoveImages:  removeImagesOp,
		PruneImages:   pruneImagesOp,
		PullImage:     pullImageOp,
		PushImage:     pushImageOp,
		TagImage:      tagImageOp,
		InspectImages: inspectImagesOp,

		RunContainer:      runContainerOp,
		ExecContainer:     execContainerOp,
		ListContainers:    listContainersOp,
		StartContainers:   startContainersOp,
		RestartContainers: restartContainersOp,
		StopContainers:    stopContainersOp,
		RemoveContainers:  removeContainersOp,
		PruneContainers:   pruneContainersOp,
		LogsForContainer:  logsForContainerOp,
		InspectContainers: inspectContainersOp,

		CreateVolume:   createVolumeOp,
		ListVolumes:    listVolumesOp,
		RemoveVolumes:  removeVolumesOp,
		PruneVolumes:   pruneVolumesOp,
		InspectVolumes: inspectVolumesOp,

		CreateNetwork:   createNetworkOp,
		ListNetworks:    listNetworksOp,
		RemoveNetworks:  removeNetworksOp,
		PruneNetworks:   pruneNetworksOp,
		InspectNetworks: inspectNetworksOp,

		ListFiles: listFilesOp,
		StatPath:  statPathOp,
		ReadFile:  readFileOp,
		WriteFile: writeFileOp,
	}
}

func call0[R any](c *Client, name string, fn func(*Client) (R, error)) (R, error) {
	if fn == nil {
		var zero R
		return zero, c.unsupported(name)
	}
	return fn(c)
}

func call[O, R any](c *Client, name string, fn func(*Client, O) (R, error), opts O) (R, error) {
	if fn == nil {
		var zero R
		return zero, c.unsupported(name)
	}
	return fn(c, opts)
}

func (c *Client) Version() (PromiseResponse[VersionItem], error) {
	return call0(c, "version", c.ops.Version)
}

func (c *Client) CheckInstall() (PromiseResponse[string], error) {
	return call0(c, "checkInstall", c.ops.CheckInstall)
}

func (c *Client) Info() (PromiseResponse[InfoItem], error) {
	return call0(c, "info", c.ops.Info)
}

func (c *Client) GetEventStream(opts EventStreamOptions) (GeneratorResponse[EventItem], error) {
	return call(c, "getEventStream", c.ops.GetEventStream, opts)
}

func (c *Client) Login(opts LoginOptions) (VoidResponse, error) {
	return call(c, "login", c.ops.Login, opts)
}

func (c *Client) Logout(opts LogoutOptions) (VoidResponse, error) {
	return call(c, "logout", c.ops.Logout, opts)
}

func (c *Client) BuildImage(opts BuildImageOptions) (VoidResponse, error) {
	return call(c, "buildImage", c.ops.BuildImage, opts)
}

func (c *Client) ListImages(opts ListImagesOptions) (PromiseResponse[[]ListImagesItem], error) {
	return call(c, "listImages", c.ops.ListImages, opts)
}

func (c *Client) RemoveImages(opts RemoveImagesOptions) (PromiseResponse[[]string], error) {
	return call(c, "removeImages", c.ops.RemoveImages, opts)
}

func (c *Client) PruneImages(opts PruneImagesOptions) (PromiseResponse[PruneItem], error) {
	return call(c, "pruneImages", c.ops.PruneImages, opts)
}

func (c *Client) PullImage(opts PullImageOptions) (VoidResponse, error) {
	return call(c, "pullImage", c.ops.PullImage, opts)
}

func (c *Client) PushImage(opts PushImageOptions) (VoidResponse, error) {
	return call(c, "pushImage", c.ops.PushImage, opts)
}

func (c *Client) TagImage(opts TagImageOptions) (VoidResponse, error) {
	return call(c, "tagImage", c.ops.TagImage, opts)
}

func (c *Client) InspectImages(opts InspectImagesOptions) (PromiseResponse[[]InspectImagesItem], error) {
	return call(c, "inspectImages", c.ops.InspectImages, opts)
}

func (c *Client) RunContainer(opts RunContainerOptions) (PromiseResponse[string], error) {
	return call(c, "runContainer", c.ops.RunContainer, opts)
}

func (c *Client) ExecContainer(opts ExecContainerOptions) (GeneratorResponse[string], error) {
	return call(c, "execContainer", c.ops.ExecContainer, opts)
}

func (c *Client) ListContainers(opts ListContainersOptions) (PromiseResponse[[]ListContainersItem], error) {
	return call(c, "listContainers", c.ops.ListContainers, opts)
}

func (c *Client) StartContainers(opts ContainerRefsOptions) (PromiseResponse[[]string], error) {
	return call(c, "startContainers", c.ops.StartContainers, opts)
}

func (c *Client) RestartContainers(opts ContainerRefsOptions) (PromiseResponse[[]string], error) {
	return call(c, "restartContainers", c.ops.RestartContainers, opts)
}

func (c *Client) StopContainers(opts StopContainersOptions) (PromiseResponse[[]string], error) {
	return call(c, "stopContainers", c.ops.StopContainers, opts)
}

func (c *Client) RemoveContainers(opts RemoveContainersOptions) (PromiseResponse[[]string], error) {
	return call(c, "removeContainers", c.ops.RemoveContainers, opts)
}

func (c *Client) PruneContainers() (PromiseResponse[PruneItem], error) {
	return call0(c, "pruneContainers", c.ops.PruneContainers)
}

func (c *Client) StatsContainers(opts StatsContainersOptions) (PromiseResponse[string], error) {
	return call(c, "statsContainers", c.ops.StatsContainers, opts)
}

func (c *Client) LogsForContainer(opts LogsForContainerOptions) (GeneratorResponse[string], error) {
	return call(c, "logsForContainer", c.ops.LogsForContainer, opts)
}

func (c *Client) InspectContainers(opts InspectContainersOptions) (PromiseResponse[[]InspectContainersItem], error) {
	return call(c, "inspectContainers", c.ops.InspectContainers, opts)
}

func (c *Client) CreateVolume(opts CreateVolumeOptions) (VoidResponse, error) {
	return call(c, "createVolume", c.ops.CreateVolume, opts)
}

func (c *Client) ListVolumes(opts ListVolumesOptions) (PromiseResponse[[]ListVolumeItem], error) {
	return call(c, "listVolumes", c.ops.ListVolumes, opts)
}

func (c *Client) RemoveVolumes(opts RemoveVolumesOptions) (PromiseResponse[[]string], error) {
	return call(c, "removeVolumes", c.ops.RemoveVolumes, opts)
}

func (c *Client) PruneVolumes() (PromiseResponse[PruneItem], error) {
	return call0(c, "pruneVolumes", c.ops.PruneVolumes)
}

func (c *Client) InspectVolumes(opts InspectVolumesOptions) (PromiseResponse[[]InspectVolumesItem], error) {
	return call(c, "inspectVolumes", c.ops.InspectVolumes, opts)
}

func (c *Client) CreateNetwork(opts CreateNetworkOptions) (VoidResponse, error) {
	return call(c, "createNetwork", c.ops.CreateNetwork, opts)
}

func (c *Client) ListNetworks(opts ListNetworksOptions) (PromiseResponse[[]ListNetworkItem], error) {
	return call(c, "listNetworks", c.ops.ListNetworks, opts)
}

func (c *Client) RemoveNetworks(opts RemoveNetworksOptions) (PromiseResponse[[]string], error) {
	return call(c, "removeNetworks", c.ops.RemoveNetworks, opts)
}

func (c *Client) PruneNetworks() (PromiseResponse[PruneItem], error) {
	return call0(c, "pruneNetworks", c.ops.PruneNetworks)
}

func (c *Client) InspectNetworks(opts InspectNetworksOptions) (PromiseResponse[[]InspectNetworksItem], error) {
	return call(c, "inspectNetworks", c.ops.InspectNetworks, opts)
}

func (c *Client) ListContexts() (PromiseResponse[[]ListContextItem], error) {
	return call0(c, "listContexts", c.ops.ListContexts)
}

func (c *Client) RemoveContexts(opts ContextsOptions) (PromiseResponse[[]string], error) {
	return call(c, "removeContexts", c.ops.RemoveContexts, opts)
}

func (c *Client) UseContext(opts UseContextOptions) (VoidResponse, error) {
	return call(c, "useContext", c.ops.UseContext, opts)
}

func (c *Client) InspectContexts(opts ContextsOptions) (PromiseResponse[[]InspectContextsItem], error) {
	return call(c, "inspectContexts", c.ops.InspectContexts, opts)
}

func (c *Client) ListFiles(opts ListFilesOptions) (PromiseResponse[[]ListFilesItem], error) {
	return call(c, "listFiles", c.ops.ListFiles, opts)
}

func (c *Client) StatPath(opts StatPathOptions) (PromiseResponse[*ListFilesItem], error) {
	return call(c, "statPath", c.ops.StatPath, opts)
}

func (c *Client) ReadFile(opts ReadFileOptions) (GeneratorResponse[[]byte], error) {
	return call(c, "readFile", c.ops.ReadFile, opts)
}

func (c *Client) WriteFile(opts WriteFileOptions) (VoidResponse, error) {
	return call(c, "writeFile", c.ops.WriteFile, opts)
}
