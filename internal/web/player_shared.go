package web

// playerCSS styles the custom controls layered over the <video> element.
const playerCSS = `
        .player-overlay {
            position: absolute;
            inset: 0;
            display: flex;
            align-items: center;
            justify-content: center;
            cursor: pointer;
            z-index: 2;
        }
        .player-overlay.hidden { display: none; }
        .play-overlay-btn {
            width: 64px;
            height: 64px;
            border-radius: 50%;
            background: rgba(0, 0, 0, 0.6);
            border: none;
            color: #fff;
            font-size: 28px;
            cursor: pointer;
            display: flex;
            align-items: center;
            justify-content: center;
            backdrop-filter: blur(4px);
            transition: background 0.2s;
        }
        .play-overlay-btn:hover { background: rgba(0, 0, 0, 0.8); }
        .player-spinner {
            position: absolute;
            top: 50%;
            left: 50%;
            transform: translate(-50%, -50%);
            width: 48px;
            height: 48px;
            border: 4px solid rgba(255, 255, 255, 0.2);
            border-top-color: #fff;
            border-radius: 50%;
            animation: spin 0.8s linear infinite;
            z-index: 4;
            display: none;
            pointer-events: none;
        }
        .player-spinner.visible { display: block; }
        @keyframes spin { to { transform: translate(-50%, -50%) rotate(360deg); } }
        .player-error {
            position: absolute;
            top: 50%;
            left: 50%;
            transform: translate(-50%, -50%);
            text-align: center;
            color: #e2e8f0;
            font-size: 14px;
            z-index: 4;
            display: none;
            pointer-events: none;
        }
        .player-error.visible { display: block; }
        .player-error-icon { font-size: 36px; margin-bottom: 8px; }
        .player-controls {
            position: absolute;
            bottom: 0;
            left: 0;
            right: 0;
            display: flex;
            align-items: center;
            gap: 8px;
            padding: 24px 12px 10px;
            background: linear-gradient(transparent, rgba(0, 0, 0, 0.85));
            z-index: 3;
            transition: opacity 0.3s;
        }
        .player-controls.hidden { opacity: 0; pointer-events: none; }
        .ctrl-btn {
            background: none;
            border: none;
            color: #fff;
            font-size: 18px;
            cursor: pointer;
            padding: 4px;
            line-height: 1;
            opacity: 0.9;
            flex-shrink: 0;
        }
        .ctrl-btn:hover { opacity: 1; }
        .ctrl-btn:focus-visible { outline: 2px solid #38bdf8; outline-offset: 2px; }
        .skip-btn { font-size: 14px; font-family: monospace; }
        .time-display {
            font-size: 12px;
            color: #fff;
            font-family: monospace;
            white-space: nowrap;
            flex-shrink: 0;
            opacity: 0.9;
        }
        .seek-bar {
            position: relative;
            flex: 1;
            height: 20px;
            display: flex;
            align-items: center;
            cursor: pointer;
        }
        .seek-track {
            position: absolute;
            left: 0;
            right: 0;
            height: 4px;
            background: rgba(255, 255, 255, 0.2);
            border-radius: 2px;
            overflow: hidden;
            transition: height 0.15s;
        }
        .seek-bar:hover .seek-track { height: 6px; }
        .seek-buffered {
            position: absolute;
            top: 0;
            left: 0;
            height: 100%;
            background: rgba(255, 255, 255, 0.3);
        }
        .seek-progress {
            position: absolute;
            top: 0;
            left: 0;
            height: 100%;
            background: #38bdf8;
            pointer-events: none;
        }
        .seek-thumb {
            position: absolute;
            width: 14px;
            height: 14px;
            background: #38bdf8;
            border-radius: 50%;
            top: 50%;
            transform: translate(-50%, -50%);
            pointer-events: none;
            opacity: 0;
            transition: opacity 0.15s;
        }
        .seek-bar:hover .seek-thumb { opacity: 1; }
        .volume-group {
            display: flex;
            align-items: center;
            gap: 4px;
            flex-shrink: 0;
        }
        .volume-slider {
            width: 60px;
            height: 4px;
            -webkit-appearance: none;
            appearance: none;
            background: rgba(255, 255, 255, 0.3);
            border-radius: 2px;
            outline: none;
        }
        .volume-slider::-webkit-slider-thumb {
            -webkit-appearance: none;
            width: 12px;
            height: 12px;
            background: #fff;
            border-radius: 50%;
            cursor: pointer;
        }
        .volume-slider::-moz-range-thumb {
            width: 12px;
            height: 12px;
            background: #fff;
            border-radius: 50%;
            cursor: pointer;
            border: none;
        }
`

// playerControlsHTML is the overlay, spinner, error state, and controls bar.
// The <video> element stays in the page template.
const playerControlsHTML = `
                <div class="player-overlay" id="player-overlay">
                    <button class="play-overlay-btn" id="play-overlay-btn" aria-label="Play">&#9654;</button>
                </div>
                <div class="player-spinner" id="player-spinner"></div>
                <div class="player-error" id="player-error"><div class="player-error-icon">&#9888;</div>Video failed to load</div>
                <div class="player-controls" id="player-controls">
                    <button class="ctrl-btn" id="play-btn" aria-label="Play">&#9654;</button>
                    <button class="ctrl-btn skip-btn" id="skip-back-btn" aria-label="Back 10 seconds">-10s</button>
                    <button class="ctrl-btn skip-btn" id="skip-fwd-btn" aria-label="Forward 10 seconds">+10s</button>
                    <span class="time-display" id="time-current">0:00</span>
                    <div class="seek-bar" id="seek-bar">
                        <div class="seek-track">
                            <div class="seek-buffered" id="seek-buffered"></div>
                            <div class="seek-progress" id="seek-progress"></div>
                        </div>
                        <div class="seek-thumb" id="seek-thumb"></div>
                    </div>
                    <span class="time-display" id="time-duration">0:00</span>
                    <div class="volume-group">
                        <button class="ctrl-btn" id="mute-btn" aria-label="Mute">&#128266;</button>
                        <input type="range" class="volume-slider" id="volume-slider" min="0" max="100" value="100">
                    </div>
                    <button class="ctrl-btn" id="fullscreen-btn" aria-label="Fullscreen">&#9974;</button>
                </div>
`

// playerJS drives the controls. The page must declare player, container,
// controls, overlay, overlayBtn, playBtn, backBtn, fwdBtn, seekBar,
// seekProgress, seekBuffered, seekThumb, timeCurrent, timeDuration,
// muteBtn, volumeSlider, fullscreenBtn, spinner, errorOverlay, and
// hideTimer before this code runs.
const playerJS = `
        function fmtTime(s) {
            if (!isFinite(s) || isNaN(s)) return '0:00';
            s = Math.floor(s);
            if (s >= 3600) return Math.floor(s/3600) + ':' + ('0'+Math.floor((s%3600)/60)).slice(-2) + ':' + ('0'+(s%60)).slice(-2);
            return Math.floor(s/60) + ':' + ('0'+(s%60)).slice(-2);
        }

        function updatePlayBtn() {
            var paused = player.paused;
            playBtn.innerHTML = paused ? '&#9654;' : '&#9646;&#9646;';
            playBtn.setAttribute('aria-label', paused ? 'Play' : 'Pause');
            overlay.classList.toggle('hidden', !paused);
            overlayBtn.innerHTML = paused ? '&#9654;' : '';
        }

        function togglePlay() {
            if (errorOverlay.classList.contains('visible')) return;
            if (player.paused) player.play().catch(function(){});
            else player.pause();
        }

        playBtn.addEventListener('click', togglePlay);
        overlayBtn.addEventListener('click', togglePlay);
        overlay.addEventListener('click', function(e) {
            if (e.target === overlay) togglePlay();
        });

        player.addEventListener('play', function() { updatePlayBtn(); showControls(); });
        player.addEventListener('pause', function() { updatePlayBtn(); showControls(); });
        player.addEventListener('ended', updatePlayBtn);

        function skip(delta) {
            var dur = (isFinite(player.duration) && player.duration) || Infinity;
            player.currentTime = Math.max(0, Math.min(dur, player.currentTime + delta));
            showControls();
        }
        backBtn.addEventListener('click', function() { skip(-10); });
        fwdBtn.addEventListener('click', function() { skip(10); });

        function updateProgress() {
            var dur = player.duration;
            if (!isFinite(dur) || !dur) return;
            var pct = Math.min((player.currentTime / dur) * 100, 100);
            seekProgress.style.width = pct + '%';
            seekThumb.style.left = pct + '%';
            timeCurrent.textContent = fmtTime(player.currentTime);
        }

        function updateBuffered() {
            var dur = player.duration;
            if (!isFinite(dur) || !dur || !player.buffered.length) return;
            var end = player.buffered.end(player.buffered.length - 1);
            seekBuffered.style.width = (end / dur * 100) + '%';
        }

        function updateDurationDisplay() {
            if (isFinite(player.duration) && player.duration) {
                timeDuration.textContent = fmtTime(player.duration);
            }
        }

        player.addEventListener('timeupdate', updateProgress);
        player.addEventListener('progress', updateBuffered);
        player.addEventListener('loadedmetadata', function() { updateDurationDisplay(); updateProgress(); });
        player.addEventListener('durationchange', function() { updateDurationDisplay(); updateProgress(); });

        var seeking = false;
        function seekFromEvent(e) {
            var rect = seekBar.getBoundingClientRect();
            var pct = Math.max(0, Math.min(1, (e.clientX - rect.left) / rect.width));
            if (isFinite(player.duration) && player.duration) {
                player.currentTime = pct * player.duration;
                updateProgress();
            }
        }
        seekBar.addEventListener('mousedown', function(e) {
            seeking = true;
            seekFromEvent(e);
        });
        document.addEventListener('mousemove', function(e) {
            if (seeking) seekFromEvent(e);
        });
        document.addEventListener('mouseup', function() { seeking = false; });
        seekBar.addEventListener('touchstart', function(e) {
            seeking = true;
            seekFromEvent(e.touches[0]);
        }, { passive: true });
        seekBar.addEventListener('touchmove', function(e) {
            if (seeking) seekFromEvent(e.touches[0]);
        }, { passive: true });
        seekBar.addEventListener('touchend', function() { seeking = false; });

        muteBtn.addEventListener('click', function() {
            player.muted = !player.muted;
            updateMuteBtn();
        });
        function updateMuteBtn() {
            if (player.muted || player.volume === 0) muteBtn.innerHTML = '&#128264;';
            else if (player.volume < 0.5) muteBtn.innerHTML = '&#128265;';
            else muteBtn.innerHTML = '&#128266;';
            muteBtn.setAttribute('aria-label', player.muted ? 'Unmute' : 'Mute');
            volumeSlider.value = player.muted ? 0 : player.volume * 100;
        }
        volumeSlider.addEventListener('input', function() {
            player.volume = volumeSlider.value / 100;
            player.muted = player.volume === 0;
            updateMuteBtn();
        });
        player.addEventListener('volumechange', updateMuteBtn);

        function enterFullscreen() {
            if (container.requestFullscreen) container.requestFullscreen().catch(function(){});
            else if (container.webkitRequestFullscreen) container.webkitRequestFullscreen();
            else if (player.webkitEnterFullscreen) player.webkitEnterFullscreen();
        }
        function exitFullscreen() {
            if (document.exitFullscreen) document.exitFullscreen().catch(function(){});
            else if (document.webkitExitFullscreen) document.webkitExitFullscreen();
        }
        function isFullscreen() {
            return document.fullscreenElement || document.webkitFullscreenElement || false;
        }
        fullscreenBtn.addEventListener('click', function() {
            if (isFullscreen()) exitFullscreen();
            else enterFullscreen();
        });
        function updateFullscreenBtn() {
            fullscreenBtn.innerHTML = isFullscreen() ? '&#9723;' : '&#9974;';
            fullscreenBtn.setAttribute('aria-label', isFullscreen() ? 'Exit fullscreen' : 'Fullscreen');
        }
        document.addEventListener('fullscreenchange', updateFullscreenBtn);
        document.addEventListener('webkitfullscreenchange', updateFullscreenBtn);

        function showControls() {
            controls.classList.remove('hidden');
            clearTimeout(hideTimer);
            if (!player.paused) {
                hideTimer = setTimeout(function() { controls.classList.add('hidden'); }, 3000);
            }
        }
        container.addEventListener('mousemove', showControls);
        container.addEventListener('touchstart', showControls, { passive: true });
        container.addEventListener('mouseleave', function() {
            if (!player.paused) {
                hideTimer = setTimeout(function() { controls.classList.add('hidden'); }, 1000);
            }
        });

        player.addEventListener('waiting', function() { spinner.classList.add('visible'); });
        player.addEventListener('playing', function() { spinner.classList.remove('visible'); });
        player.addEventListener('canplay', function() { spinner.classList.remove('visible'); });

        player.addEventListener('error', function() {
            spinner.classList.remove('visible');
            errorOverlay.classList.add('visible');
            controls.classList.add('hidden');
            overlay.classList.add('hidden');
        });

        document.addEventListener('keydown', function(e) {
            if (e.target.tagName === 'INPUT' || e.target.tagName === 'TEXTAREA' || e.target.isContentEditable) return;
            var handled = true;
            switch (e.key) {
                case ' ':
                case 'k':
                case 'K':
                    togglePlay();
                    break;
                case 'ArrowLeft':
                    skip(-10);
                    break;
                case 'ArrowRight':
                    skip(10);
                    break;
                case 'm':
                case 'M':
                    player.muted = !player.muted;
                    break;
                case 'f':
                case 'F':
                    if (isFullscreen()) exitFullscreen();
                    else enterFullscreen();
                    break;
                default:
                    handled = false;
            }
            if (handled) e.preventDefault();
        });

        updatePlayBtn();
        updateMuteBtn();

        // iOS Safari: custom controls are unreliable, use the native ones.
        var isIOS = /iPad|iPhone|iPod/.test(navigator.userAgent) ||
                    (navigator.platform === 'MacIntel' && navigator.maxTouchPoints > 1);
        if (isIOS) {
            player.setAttribute('controls', '');
            controls.style.display = 'none';
            overlay.style.display = 'none';
        }
`
